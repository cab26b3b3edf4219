// Package shell prints the startup banner and holds the terminal open
// at exit for users who launch tilder from a file manager.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Info identifies the program in the banner.
type Info struct {
	Name        string
	Version     string
	Description string
	Author      string
}

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#16858E")).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2CD7C7"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2C4A54"))
)

// PauseMessage is printed before waiting for acknowledgment.
const PauseMessage = "Press enter to exit..."

// Banner writes the identification block. On a terminal it is drawn in a
// box; elsewhere it is plain text so logs and pipes stay readable.
func Banner(w io.Writer, info Info) {
	if IsTerminal(w) {
		body := titleStyle.Render(info.Name+" "+info.Version) + "\n" +
			info.Description
		if info.Author != "" {
			body += "\n" + mutedStyle.Render(info.Author)
		}
		fmt.Fprintln(w, boxStyle.Render(body))
		return
	}

	fmt.Fprintln(w, bannerText(info))
}

func bannerText(info Info) string {
	lines := []string{
		info.Name + " " + info.Version,
		info.Description,
	}
	if info.Author != "" {
		lines = append(lines, info.Author)
	}
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	rule := strings.Repeat("=", width)
	return rule + "\n" + strings.Join(lines, "\n") + "\n" + rule
}

// Pause prints PauseMessage and waits for a line (or EOF) on r. It gives
// up when ctx is done; the pending read is then abandoned.
func Pause(ctx context.Context, r io.Reader, w io.Writer) error {
	fmt.Fprint(w, PauseMessage)

	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(r).ReadString('\n')
		done <- err
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(w)
		return ctx.Err()
	case err := <-done:
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(w)
			return nil
		}
		return err
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
