package cases

import (
	"fmt"
	"strings"
)

// Report is a static evaluation shown once a hearing has finished.
// Its scores are authored content; nothing in it is computed from the transcript.
type Report struct {
	Title       string      `yaml:"title" json:"title"`
	Subtitle    string      `yaml:"subtitle" json:"subtitle"`
	Rating      string      `yaml:"rating" json:"rating"`
	Categories  []Category  `yaml:"categories" json:"categories"`
	Weaknesses  []Note      `yaml:"weaknesses" json:"weaknesses"`
	Suggestions []Note      `yaml:"suggestions" json:"suggestions"`
	Resources   ReadingList `yaml:"resources" json:"resources"`
}

// Category is one scored criterion.
type Category struct {
	Name    string `yaml:"name" json:"name"`
	Points  int    `yaml:"points" json:"points"`
	Score   int    `yaml:"score" json:"score"`
	Remarks string `yaml:"remarks" json:"remarks"`
}

// Note is a titled remark with optional bullet items.
type Note struct {
	Title  string   `yaml:"title" json:"title"`
	Detail string   `yaml:"detail" json:"detail"`
	Items  []string `yaml:"items" json:"items,omitempty"`
}

// ReadingList groups suggested legal resources.
type ReadingList struct {
	Statutes []string `yaml:"statutes" json:"statutes"`
	CaseLaw  []string `yaml:"case_law" json:"case_law"`
	Books    []string `yaml:"books" json:"books"`
}

// Total returns the sum of category scores.
func (r *Report) Total() int {
	n := 0
	for _, c := range r.Categories {
		n += c.Score
	}
	return n
}

// MaxTotal returns the sum of category points.
func (r *Report) MaxTotal() int {
	n := 0
	for _, c := range r.Categories {
		n += c.Points
	}
	return n
}

// Markdown renders the report for terminal display.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	if r.Subtitle != "" {
		fmt.Fprintf(&b, "_%s_\n\n", r.Subtitle)
	}
	fmt.Fprintf(&b, "**Total Score: %d / %d** (%s)\n\n", r.Total(), r.MaxTotal(), r.Rating)

	b.WriteString("## Scoring System Criteria\n\n")
	b.WriteString("| Category | Points | Score | Remarks |\n|---|---|---|---|\n")
	for _, c := range r.Categories {
		fmt.Fprintf(&b, "| %s | %d | %d | %s |\n", c.Name, c.Points, c.Score, c.Remarks)
	}

	writeNotes(&b, "Specific Errors / Weaknesses", r.Weaknesses)
	writeNotes(&b, "Suggestions for Improvement", r.Suggestions)

	b.WriteString("\n## Suggested Legal Resources\n")
	writeList(&b, "Statutes", r.Resources.Statutes)
	writeList(&b, "Case Law", r.Resources.CaseLaw)
	writeList(&b, "Books", r.Resources.Books)

	return b.String()
}

func writeNotes(b *strings.Builder, heading string, notes []Note) {
	if len(notes) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", heading)
	for i, n := range notes {
		fmt.Fprintf(b, "%d. **%s**: %s\n", i+1, n.Title, n.Detail)
		for _, item := range n.Items {
			fmt.Fprintf(b, "   - %s\n", item)
		}
	}
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}
