package content

import (
	"fmt"
	"strings"
	"testing"
)

// sampleYAML renders a valid six category board with the daily double at
// category 3, row 2
func sampleYAML(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	for ci := 0; ci < 6; ci++ {
		fmt.Fprintf(&b, "  - name: Category %d\n    clues:\n", ci)
		for ri := 0; ri < 5; ri++ {
			fmt.Fprintf(&b, "      - prompt: prompt %d-%d\n        response: response %d-%d\n", ci, ri, ci, ri)
			if ci == 3 && ri == 2 {
				b.WriteString("        dailyDouble: true\n")
			}
		}
	}
	return fmt.Sprintf(miniBoard, strings.TrimRight(b.String(), "\n"))
}
