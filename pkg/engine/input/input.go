package input

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"
)

// ReadCommands turns every line read from r into a terminal RawInput until
// r is exhausted or ctx is cancelled. The returned channel is closed then.
func ReadCommands(ctx context.Context, r io.Reader, now func() time.Time) <-chan RawInput {
	out := make(chan RawInput, 8)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			code := strings.ToLower(strings.TrimSpace(scanner.Text()))
			if code == "" {
				continue
			}
			select {
			case out <- RawInput{Device: DeviceTerminal, Code: code, Timestamp: now()}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
