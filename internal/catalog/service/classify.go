package service

import "strings"

// Default author-name fragments. These are a coarse heuristic; deployments
// override them through configuration.
var (
	DefaultIndianFragments = []string{
		"tagore", "narayan", "desai", "nair", "mistry", "gosh", "bhagat", "murthy", "rao", "sahni",
	}
	DefaultTamilFragments = []string{
		"kalki", "jeyamohan", "vaasan", "vairamuthu", "sivashankari", "sujatha",
		"imbam", "charu", "nivedita", "imayam", "magan", "ananth", "pandian",
	}
)

// Classifier tags authors by case-insensitive substring match against two
// fragment lists. The lists are independent, so an author may be both.
type Classifier struct {
	indian []string
	tamil  []string
}

func NewClassifier(indian, tamil []string) *Classifier {
	return &Classifier{indian: cleanFragments(indian), tamil: cleanFragments(tamil)}
}

func DefaultClassifier() *Classifier {
	return NewClassifier(DefaultIndianFragments, DefaultTamilFragments)
}

func (c *Classifier) IsIndian(author string) bool { return containsAny(author, c.indian) }

func (c *Classifier) IsTamil(author string) bool { return containsAny(author, c.tamil) }

func containsAny(s string, frags []string) bool {
	s = strings.ToLower(s)
	for _, f := range frags {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

func cleanFragments(in []string) []string {
	out := make([]string, 0, len(in))
	for _, f := range in {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
