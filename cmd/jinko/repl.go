package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"gopkg.in/urfave/cli.v1"

	"github.com/jinko-lang/jinko/internal/evaluator"
	"github.com/jinko-lang/jinko/internal/session"
)

const (
	historyFile = ".jinko_history"
	promptMain  = "jinko> "
	promptCont  = "  ...> "
	replFile    = "<repl>"
)

func replCommand(c *cli.Context) error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	s, err := loadSettings(c, dir)
	if err != nil {
		return err
	}
	sess := s.session(false)
	if err := sess.Start(dir); err != nil {
		s.report(err)
		return exitWith(session.ExitStatus(nil, err))
	}

	valueColor := color.New(color.FgGreen)
	typeColor := color.New(color.FgHiBlack)
	if !s.color {
		valueColor.DisableColor()
		typeColor.DisableColor()
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	fmt.Printf("jinko %s, :quit to exit\n", c.App.Version)
	for {
		src, ok := readChunk(ln)
		if !ok {
			fmt.Println()
			return nil
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			switch trimmed {
			case ":quit", ":q":
				return nil
			default:
				fmt.Println("unknown command, type :quit to exit")
			}
			continue
		}

		value, typ, err := sess.Eval(replFile, src)
		if err != nil {
			var quit *evaluator.QuitError
			if errors.As(err, &quit) {
				return exitWith(quit.Code)
			}
			s.report(err)
			continue
		}
		if _, unit := value.(*evaluator.Unit); unit {
			continue
		}
		fmt.Printf("%s %s\n", valueColor.Sprint(value.Inspect()), typeColor.Sprintf(": %s", typ))
	}
}

// readChunk reads lines until the accumulated input closes every bracket.
func readChunk(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !session.Incomplete(b.String()) {
			return b.String(), true
		}
	}
}
