package ai

import (
	"bufio"
	"io"
	"strings"
)

// readSSE consumes a text/event-stream body and invokes handle for
// each data payload. A [DONE] sentinel (OpenAI convention) ends the
// stream cleanly; providers without the sentinel just hit EOF.
func readSSE(r io.Reader, handle func(data []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}
		if data == "[DONE]" {
			return nil
		}
		if err := handle([]byte(data)); err != nil {
			return err
		}
	}
	return scanner.Err()
}
