package ui

import (
	"testing"

	"src.numbox.dev/pkg/tt"
)

func TestText_VTString(t *testing.T) {
	tt.Test(t, tt.Fn("VTString", Text.VTString), tt.Table{
		tt.Args(T("plain")).Rets("\033[mplain"),
		tt.Args(T("red", FgRed)).Rets("\033[;31mred\033[m"),
		tt.Args(Concat(T("a", Bold), T("b", FgGreen))).Rets(
			"\033[;1ma\033[;32mb\033[m"),
		tt.Args(Concat(T("a", FgRed), T(" "), T("b", FgRed))).Rets(
			"\033[;31ma\033[m \033[31mb\033[m"),
		tt.Args(T("x", Stylings(FgBlue, Italic))).Rets("\033[;3;34mx\033[m"),
		tt.Args(T("x", BgOf(BrightWhite))).Rets("\033[;107mx\033[m"),
	})
}

func TestText_String(t *testing.T) {
	tt.Test(t, tt.Fn("String", Text.String), tt.Table{
		tt.Args(Concat(Operator("="), Plain(" "), Value("5"), Plain(" "), Unit("m"))).
			Rets("= 5 m"),
		tt.Args(Text(nil)).Rets(""),
	})
}

func TestText_Render(t *testing.T) {
	text := Keyword("let")
	if got := text.Render(false); got != "let" {
		t.Errorf("Render(false) -> %q", got)
	}
	if got := text.Render(true); got != "\033[;1;35mlet\033[m" {
		t.Errorf("Render(true) -> %q", got)
	}
}

func TestJoin(t *testing.T) {
	tt.Test(t, tt.Fn("Join", Join), tt.Table{
		tt.Args(Plain(", "), Plain("a"), Plain("b"), Plain("c")).Rets(
			Text{{Text: "a"}, {Text: ", "}, {Text: "b"}, {Text: ", "}, {Text: "c"}}),
		tt.Args(Plain(", ")).Rets(Text(nil)),
	})
}

func TestText_IsEmpty(t *testing.T) {
	tt.Test(t, tt.Fn("IsEmpty", Text.IsEmpty), tt.Table{
		tt.Args(Text(nil)).Rets(true),
		tt.Args(Plain("")).Rets(true),
		tt.Args(Dimmed("x")).Rets(false),
	})
}
