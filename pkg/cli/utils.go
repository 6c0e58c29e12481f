package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// PromptLine displays a prompt and reads a full line of input from the
// user, trimmed of surrounding whitespace. Used by CheckForUpdate's
// confirmation prompt.
func PromptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
