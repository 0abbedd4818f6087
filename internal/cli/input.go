package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword and isTerminal are test seams over x/term.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readRawLine is readLine without trimming: only the line ending is removed.
func readRawLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || len(line) == 0) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The line is trimmed. If EOF occurs after some input was read, the partial
// line is returned.
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	return readLine(reader)
}

// GetTextOr is GetSimpleText with a current value: an empty answer keeps it.
func GetTextOr(reader *bufio.Reader, prompt, current string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s [%s]\n> ", prompt, current); err != nil {
		return "", err
	}
	s, err := readLine(reader)
	if err != nil {
		return "", err
	}
	if s == "" {
		return current, nil
	}
	return s, nil
}

// GetBool asks a yes/no question. An empty answer keeps current; anything
// other than y/yes/n/no is asked again.
func GetBool(reader *bufio.Reader, prompt string, current bool, w io.Writer) (bool, error) {
	hint := "y/N"
	if current {
		hint = "Y/n"
	}
	for {
		if _, err := fmt.Fprintf(w, "%s (%s)\n> ", prompt, hint); err != nil {
			return false, err
		}
		s, err := readLine(reader)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(s) {
		case "":
			return current, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(w, "Please answer y or n.")
	}
}

// GetList reads a comma-separated list. An empty answer keeps current, a
// single "-" clears it.
func GetList(reader *bufio.Reader, prompt string, current []string, w io.Writer) ([]string, error) {
	if _, err := fmt.Fprintf(w, "%s [%s] (comma-separated, - to clear)\n> ", prompt, strings.Join(current, ", ")); err != nil {
		return nil, err
	}
	s, err := readLine(reader)
	if err != nil {
		return nil, err
	}
	switch s {
	case "":
		return current, nil
	case "-":
		return []string{}, nil
	}

	items := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items, nil
}

// GetPassword prints prompt to w and reads a password. On a terminal the
// input is not echoed; otherwise (piped input) a line is read from reader.
// Surrounding spaces are part of the password.
func GetPassword(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}

	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return readRawLine(reader)
	}

	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
