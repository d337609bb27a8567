package richtext

import (
	"strconv"
	"strings"

	"github.com/FocuswithJustin/richtext/core/dialect"
	"github.com/FocuswithJustin/richtext/core/dom"
	"github.com/FocuswithJustin/richtext/core/rules"
)

// HeadingRule maps h1..h6 to a paragraph carrying the p--heading-<n> class.
// Levels outside 1..6 are left alone in both directions.
func HeadingRule(dir rules.Direction) rules.RuleConfig {
	toData := func(ctx *rules.Context, n dom.NodeID) dom.NodeID {
		level, ok := ParseHeadingLevel(ctx.Out.LocalName(n))
		if !ok || !isTarget(ctx, n, ctx.Out.LocalName(n)) {
			return n
		}
		ctx.Out.Rename(n, "p")
		ctx.Out.AddClass(n, headingClass(level))
		return n
	}

	toView := func(ctx *rules.Context, n dom.NodeID) dom.NodeID {
		if !isTarget(ctx, n, "p") {
			return n
		}
		token, ok := ctx.Out.FindClass(n, func(token string) bool {
			_, ok := ParseHeadingClass(token)
			return ok
		})
		if !ok {
			return n
		}
		level, _ := ParseHeadingClass(token)
		ctx.Out.RemoveClass(n, token)
		ctx.Out.Rename(n, headingName(level))
		return n
	}

	return rules.MustResolve(dir,
		importedSection(headingShapes(), toData),
		importedSection(shapes("p"), toView),
		rules.Defaults{ID: "heading"},
	)
}

// ParseHeadingLevel returns the level of a heading element name h1..h6.
func ParseHeadingLevel(local string) (int, bool) {
	if len(local) != 2 || local[0] != 'h' {
		return 0, false
	}
	return parseLevel(local[1:])
}

// ParseHeadingClass returns the level encoded in a p--heading-<n> class
// token, for n in 1..6.
func ParseHeadingClass(token string) (int, bool) {
	digit, ok := strings.CutPrefix(token, dialect.ClassHeadingPrefix)
	if !ok {
		return 0, false
	}
	return parseLevel(digit)
}

func parseLevel(s string) (int, bool) {
	if len(s) != 1 || s[0] < '1' || s[0] > '6' {
		return 0, false
	}
	return int(s[0] - '0'), true
}

func headingClass(level int) string {
	return dialect.ClassHeadingPrefix + strconv.Itoa(level)
}

func headingName(level int) string {
	return "h" + strconv.Itoa(level)
}

func headingShapes() []dialect.Shape {
	out := make([]dialect.Shape, 0, 6)
	for level := 1; level <= 6; level++ {
		out = append(out, dialect.HeadingShape(level))
	}
	return out
}
