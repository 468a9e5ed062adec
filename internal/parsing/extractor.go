package parsing

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
	"go.uber.org/zap"
)

// Contact holds identity details found in the header block
type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Ambiguity records a block the extractor could not classify with confidence.
// Resolution says what was done with it.
type Ambiguity struct {
	Family     string `json:"family"`
	Text       string `json:"text"`
	Reason     string `json:"reason"`
	Resolution string `json:"resolution"`
}

// Entities is the typed output of extraction. Every list is non-nil.
type Entities struct {
	Contact        Contact                 `json:"contact"`
	Experience     []types.ExperienceEntry `json:"experience"`
	Education      []types.EducationEntry  `json:"education"`
	Projects       []types.ProjectEntry    `json:"projects"`
	Certifications []types.Certification   `json:"certifications"`
	Languages      []types.Language        `json:"languages"`
	Skills         types.SkillSet          `json:"skills"`
	Ambiguities    []Ambiguity             `json:"ambiguities,omitempty"`
}

// Options configures an Extractor
type Options struct {
	Matcher *skills.Matcher
	Logger  *zap.Logger
	// PreferPresentRange selects the open-ended range when one line carries
	// several ranges that cannot be split into separate entries. When false
	// the first range wins. Nil means true.
	PreferPresentRange *bool
}

// Extractor turns segments into typed records. It holds no mutable state and
// is safe for concurrent use.
type Extractor struct {
	matcher       *skills.Matcher
	logger        *zap.Logger
	preferPresent bool
}

// NewExtractor creates an Extractor.
func NewExtractor(opts Options) *Extractor {
	e := &Extractor{
		matcher:       opts.Matcher,
		logger:        opts.Logger,
		preferPresent: true,
	}
	if e.matcher == nil {
		e.matcher = skills.Default()
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if opts.PreferPresentRange != nil {
		e.preferPresent = *opts.PreferPresentRange
	}
	return e
}

// Extract runs every entity family over segments. Families are independent:
// a failure in one leaves its list empty and does not affect the others.
func (e *Extractor) Extract(segments []types.Segment) Entities {
	out := Entities{
		Experience:     []types.ExperienceEntry{},
		Education:      []types.EducationEntry{},
		Projects:       []types.ProjectEntry{},
		Certifications: []types.Certification{},
		Languages:      []types.Language{},
		Skills:         types.SkillSet{},
	}

	var deferred []string
	e.guard("experience", func() {
		var ambiguities []Ambiguity
		out.Experience, deferred, ambiguities = e.extractExperience(types.SegmentsOfKind(segments, types.SectionExperience))
		out.Ambiguities = append(out.Ambiguities, ambiguities...)
	})
	e.guard("education", func() {
		out.Education = e.extractEducation(types.SegmentsOfKind(segments, types.SectionEducation), deferred)
	})
	e.guard("skills", func() {
		out.Skills = e.extractSkills(segments)
	})
	e.guard("projects", func() {
		out.Projects = e.extractProjects(types.SegmentsOfKind(segments, types.SectionProjects))
	})
	e.guard("certifications", func() {
		out.Certifications = extractCertifications(types.SegmentsOfKind(segments, types.SectionCertifications))
	})
	e.guard("languages", func() {
		out.Languages = extractLanguages(types.SegmentsOfKind(segments, types.SectionLanguages))
	})
	e.guard("contact", func() {
		out.Contact = extractContact(segments)
	})

	for _, a := range out.Ambiguities {
		e.logger.Info("ambiguous block",
			zap.String("family", a.Family),
			zap.String("reason", a.Reason),
			zap.String("resolution", a.Resolution),
		)
	}
	return out
}

// guard runs fn and turns a panic into a logged, empty family.
func (e *Extractor) guard(family string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("entity extraction failed",
				zap.String("family", family),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	fn()
}

// blockLines splits segment text into trimmed lines, keeping blank lines as
// block separators.
func blockLines(segments []types.Segment) []string {
	var lines []string
	for i, s := range segments {
		if i > 0 {
			lines = append(lines, "")
		}
		for _, l := range strings.Split(s.Text, "\n") {
			lines = append(lines, strings.TrimSpace(l))
		}
	}
	return lines
}

// blocks groups non-empty lines separated by blank lines.
func blocks(lines []string) [][]string {
	var out [][]string
	var cur []string
	for _, l := range lines {
		if l == "" {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, l)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
