package colors

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/YaLTeR/circular-queue/cmd/config"
	"github.com/fatih/color"
	"github.com/samber/lo"
)

type ColorBuilder func(value ...color.Attribute) StrColorizer

type StrColorizer func(s string) string

// Highlighter colors the parts of a line matched by configured rules and by
// plain substrings. When several rules match overlapping text the rule
// declared first wins.
type Highlighter struct {
	Enabled      bool
	colorBuilder ColorBuilder
	rules        []rule
}

type rule struct {
	re  *regexp.Regexp
	col StrColorizer
}

type span struct {
	start, end int
	col        StrColorizer
}

func NewHighlighter(cfg config.Highlights, substrings []string, colorBuilder ColorBuilder) (*Highlighter, error) {
	h := &Highlighter{
		Enabled:      !color.NoColor,
		colorBuilder: colorBuilder,
	}

	for _, hl := range cfg {
		r, err := h.ruleForConfig(hl)
		if err != nil {
			return nil, err
		}
		if r != nil {
			h.rules = append(h.rules, *r)
		}
	}

	substrings = lo.Filter(substrings, func(s string, _ int) bool { return len(s) > 0 })
	if len(substrings) > 0 {
		escaped := lo.Map(substrings, func(s string, _ int) string { return regexp.QuoteMeta(s) })
		h.rules = append(h.rules, rule{
			re:  regexp.MustCompile("(?i)" + strings.Join(escaped, "|")),
			col: colorBuilder(color.FgCyan),
		})
	}

	return h, nil
}

func DefaultColorBuilder(value ...color.Attribute) StrColorizer {
	c := color.New(value...)
	return func(s string) string {
		return c.Sprint(s)
	}
}

func (h *Highlighter) Highlight(line string) string {
	if !h.Enabled || len(h.rules) == 0 {
		return line
	}

	var spans []span
	for _, r := range h.rules {
		if r.re == nil {
			if len(line) > 0 {
				spans = addSpan(spans, span{0, len(line), r.col})
			}
			continue
		}
		for _, m := range r.re.FindAllStringIndex(line, -1) {
			if m[0] < m[1] {
				spans = addSpan(spans, span{m[0], m[1], r.col})
			}
		}
	}

	slices.SortFunc(spans, func(a, b span) int { return a.start - b.start })

	res := strings.Builder{}
	pos := 0
	for _, s := range spans {
		res.WriteString(line[pos:s.start])
		res.WriteString(s.col(line[s.start:s.end]))
		pos = s.end
	}
	res.WriteString(line[pos:])
	return res.String()
}

func addSpan(spans []span, s span) []span {
	for _, other := range spans {
		if s.start < other.end && other.start < s.end {
			return spans
		}
	}
	return append(spans, s)
}

func (h *Highlighter) ruleForConfig(hl config.Highlight) (*rule, error) {
	col := h.colorizerForConfig(hl)
	if col == nil {
		return nil, nil
	}

	switch {
	case len(hl.Value) > 0:
		return &rule{re: regexp.MustCompile(regexp.QuoteMeta(hl.Value)), col: col}, nil
	case len(hl.Pattern) > 0:
		re, err := regexp.Compile(hl.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid highlight pattern %s: %w", hl.Pattern, err)
		}
		return &rule{re: re, col: col}, nil
	default:
		return &rule{col: col}, nil
	}
}

func (h *Highlighter) colorizerForConfig(hl config.Highlight) StrColorizer {
	if len(hl.Color) > 0 {
		switch hl.Color {
		case config.PColorBlack:
			return h.colorBuilder(color.FgBlack)
		case config.PColorBlue:
			return h.colorBuilder(color.FgBlue)
		case config.PColorCyan:
			return h.colorBuilder(color.FgCyan)
		case config.PColorGreen:
			return h.colorBuilder(color.FgGreen)
		case config.PColorMagenta:
			return h.colorBuilder(color.FgMagenta)
		case config.PColorRed:
			return h.colorBuilder(color.FgRed)
		case config.PColorWhite:
			return h.colorBuilder(color.FgWhite)
		case config.PColorYellow:
			return h.colorBuilder(color.FgYellow)
		default:
			return nil
		}
	}

	if len(hl.CustomColor) > 0 {
		return h.colorBuilder(toAttributes(hl.CustomColor)...)
	}

	return nil
}

func toAttributes(ints []int) []color.Attribute {
	return lo.Map(ints, func(c, _ int) color.Attribute { return color.Attribute(c) })
}
