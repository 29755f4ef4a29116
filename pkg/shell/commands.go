package shell

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"src.numbox.dev/pkg/eval"
	"src.numbox.dev/pkg/session"
	"src.numbox.dev/pkg/store/storedefs"
	"src.numbox.dev/pkg/sys"
)

// Number of entries shown by the history command.
const historyShown = 20

const helpText = `Enter an expression or a statement to evaluate it:

  let v = 100 km / 2 h          define a variable
  v -> m/s                      convert to another unit
  fn kinetic(m, v) = m v^2 / 2  define a function
  unit furlong = 201.168 m      define a unit
  dimension Jerk = Length / Time^3
  use physics::constants        import a module

Commands:

  help                          show this message
  list [units|dimensions|variables|functions|modules]
                                list known names, or the bundled modules
  history                       show recent submissions
  clear                         clear the screen
  quit, exit                    leave numbox
`

// Commands that are handled by the shell instead of being evaluated.
type commands struct {
	out       *os.File
	session   *session.Session
	history   storedefs.Store
	sessionID string
}

var listCategories = []struct {
	name, title string
	kind        eval.Kind
}{
	{"variables", "Variables", eval.Variable},
	{"functions", "Functions", eval.Function},
	{"dimensions", "Dimensions", eval.Dimension},
	{"units", "Units", eval.Unit},
}

// Runs line if it is a command. It returns whether line was a command, and
// whether the shell should quit.
func (c *commands) run(line string) (handled, quit bool) {
	words := strings.Fields(line)
	if len(words) == 0 || len(words) > 2 {
		return false, false
	}
	if len(words) == 2 && words[0] != "list" {
		return false, false
	}
	switch words[0] {
	case "quit", "exit":
		return true, true
	case "help":
		fmt.Fprint(c.out, helpText)
	case "list":
		c.list(words[1:])
	case "history":
		c.showHistory()
	case "clear":
		if sys.IsATTY(c.out.Fd()) {
			fmt.Fprint(c.out, "\033[H\033[2J")
		}
	default:
		return false, false
	}
	return true, false
}

func (c *commands) list(args []string) {
	if len(args) > 0 && args[0] == "modules" {
		fmt.Fprintln(c.out, "Bundled modules:")
		fmt.Fprint(c.out, wrapNames(c.session.Chain().BuiltinNames(), c.session.TerminalWidth(), "  "))
		return
	}
	bindings := c.session.Names()
	width := c.session.TerminalWidth()
	shown := false
	for _, cat := range listCategories {
		if len(args) > 0 && args[0] != cat.name {
			continue
		}
		shown = true
		var names []string
		for _, b := range bindings {
			if b.Kind == cat.kind {
				names = append(names, b.Name)
			}
		}
		fmt.Fprintln(c.out, cat.title+":")
		if len(names) == 0 {
			fmt.Fprintln(c.out, "  (none)")
		} else {
			fmt.Fprint(c.out, wrapNames(names, width, "  "))
		}
	}
	if !shown {
		fmt.Fprintf(c.out, "unknown category %q; must be one of units, dimensions, variables, functions, modules\n", args[0])
	}
}

func (c *commands) showHistory() {
	if c.history == nil {
		fmt.Fprintln(c.out, "history is disabled")
		return
	}
	next, err := c.history.NextCmdSeq()
	if err != nil {
		fmt.Fprintln(c.out, "cannot read history:", err)
		return
	}
	cmds, err := c.history.CmdsWithSeq(max(1, next-historyShown), next)
	if err != nil {
		fmt.Fprintln(c.out, "cannot read history:", err)
		return
	}
	for _, cmd := range cmds {
		marker := " "
		if cmd.Session == c.sessionID {
			marker = "*"
		}
		fmt.Fprintf(c.out, "%5d%s %s\n", cmd.Seq, marker, cmd.Text)
	}
}

// Joins names with ", ", breaking lines so that they fit in width.
func wrapNames(names []string, width int, indent string) string {
	var sb strings.Builder
	lineLen := 0
	for i, name := range names {
		item := name
		if i < len(names)-1 {
			item += ","
		}
		n := utf8.RuneCountInString(item)
		switch {
		case lineLen == 0:
			sb.WriteString(indent + item)
			lineLen = len(indent) + n
		case lineLen+1+n > width:
			sb.WriteString("\n" + indent + item)
			lineLen = len(indent) + n
		default:
			sb.WriteString(" " + item)
			lineLen += 1 + n
		}
	}
	sb.WriteString("\n")
	return sb.String()
}
