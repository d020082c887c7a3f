// internal/domain/catalog/catalog.go
package catalog

import "sort"

const (
	MinGrade = 1
	MaxGrade = 5
)

// Catalog maps a grade number to the class labels used by the portal.
// It is built once and never modified.
type Catalog struct {
	classes map[int][]string
	known   map[string]int
}

// New builds a catalog from a grade -> labels mapping. Label order is kept.
func New(byGrade map[int][]string) *Catalog {
	c := &Catalog{
		classes: make(map[int][]string, len(byGrade)),
		known:   make(map[string]int),
	}
	for grade, labels := range byGrade {
		c.classes[grade] = append([]string(nil), labels...)
		for _, l := range labels {
			c.known[l] = grade
		}
	}
	return c
}

// Default returns the school's class list.
func Default() *Catalog {
	return New(map[int][]string{
		1: {"1a LO-p", "1PL Tech-p", "1ME Tech-p", "1RZA Tech-p", "1a BS-p", "1b BS-p"},
		2: {"2a LO-p", "2b LO-p", "2AR Tech-p", "2ME Tech-p", "2SI Tech-p", "2TL Tech-p", "2TP Tech-p", "2TZ Tech-p", "2aBS BS-p", "2bBS BS-p", "2cBS BS-p"},
		3: {"3a LO-p", "3b LO-p", "3TP Tech-p", "3TZ Tech-p", "3TM Tech-p", "3EO Tech-p", "3PS Tech-p", "3TI Tech-p", "3TL Tech-p", "3AR Tech-p", "3aBS BS-p", "3bBS BS-p"},
		4: {"4a LO-p", "4TP Tech-p", "4TL Tech-p", "4TI Tech-p", "4PI Tech-p", "4AR Tech-p", "4ME Tech-p"},
		5: {"5TP Tech-p", "5TM Tech-p", "5TI Tech-p", "5RZ Tech-p", "5LA Tech-p"},
	})
}

// ValidGrade reports whether grade is within the supported range.
func ValidGrade(grade int) bool {
	return grade >= MinGrade && grade <= MaxGrade
}

// Classes returns a copy of the labels for grade, or nil for an unknown grade.
func (c *Catalog) Classes(grade int) []string {
	labels, ok := c.classes[grade]
	if !ok {
		return nil
	}
	return append([]string(nil), labels...)
}

// Grades returns the grades present in the catalog in ascending order.
func (c *Catalog) Grades() []int {
	grades := make([]int, 0, len(c.classes))
	for g := range c.classes {
		grades = append(grades, g)
	}
	sort.Ints(grades)
	return grades
}

// Contains reports whether label is a known class.
func (c *Catalog) Contains(label string) bool {
	_, ok := c.known[label]
	return ok
}
