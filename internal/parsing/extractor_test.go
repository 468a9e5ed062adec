package parsing

import (
	"testing"

	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seg(kind types.SectionKind, text string) types.Segment {
	return types.Segment{SectionKind: kind, Column: types.ColumnFull, Text: text, Confidence: 0.5}
}

func boolPtr(b bool) *bool { return &b }

func TestExtract_EmptyInputIsFullyShaped(t *testing.T) {
	got := NewExtractor(Options{}).Extract(nil)

	assert.NotNil(t, got.Experience)
	assert.NotNil(t, got.Education)
	assert.NotNil(t, got.Projects)
	assert.NotNil(t, got.Certifications)
	assert.NotNil(t, got.Languages)
	assert.NotNil(t, got.Skills)
	assert.Empty(t, got.Experience)
	assert.Empty(t, got.Ambiguities)
}

func TestExtract_Experience(t *testing.T) {
	text := `Senior Software Engineer
Acme Technologies
Jan 2020 - Present
- Built services in Go and Kubernetes
- Led migration to PostgreSQL

Software Developer | Beta Labs
Mar 2017 - Dec 2019
- Worked on React frontends`

	got := NewExtractor(Options{}).Extract([]types.Segment{seg(types.SectionExperience, text)})
	require.Len(t, got.Experience, 2)

	first := got.Experience[0]
	assert.Equal(t, "Senior Software Engineer", first.Title)
	assert.Equal(t, "Acme Technologies", first.Company)
	assert.Equal(t, "2020-01", first.StartDate.String())
	assert.True(t, first.IsCurrent())
	assert.Equal(t, "Built services in Go and Kubernetes\nLed migration to PostgreSQL", first.Description)
	assert.Contains(t, first.Technologies, "Go")
	assert.Contains(t, first.Technologies, "Kubernetes")
	assert.Contains(t, first.Technologies, "PostgreSQL")

	second := got.Experience[1]
	assert.Equal(t, "Software Developer", second.Title)
	assert.Equal(t, "Beta Labs", second.Company)
	assert.Equal(t, "2017-03", second.StartDate.String())
	assert.Equal(t, "2019-12", second.EndDate.String())
	assert.Equal(t, []string{"React"}, second.Technologies)
}

func TestExtract_AcademicBlockDeferredToEducation(t *testing.T) {
	text := `Bachelor of Science in Computer Science
Stanford University
2015 - 2019`

	got := NewExtractor(Options{}).Extract([]types.Segment{seg(types.SectionExperience, text)})

	assert.Empty(t, got.Experience)
	require.Len(t, got.Education, 1)
	assert.Equal(t, types.EducationEntry{
		Degree:      "Bachelor of Science",
		Institution: "Stanford University",
		Field:       "Computer Science",
		Year:        "2019",
	}, got.Education[0])
	require.Len(t, got.Ambiguities, 1)
	assert.Equal(t, "deferred to education", got.Ambiguities[0].Resolution)
}

func TestExtract_AcademicBlockWithDatesBeforeDegree(t *testing.T) {
	text := `Stanford University
2015 - 2019
Master of Science in Computer Science`

	got := NewExtractor(Options{}).Extract([]types.Segment{seg(types.SectionExperience, text)})

	assert.Empty(t, got.Experience)
	require.Len(t, got.Education, 1)
	assert.Equal(t, types.EducationEntry{
		Degree:      "Master of Science",
		Institution: "Stanford University",
		Field:       "Computer Science",
		Year:        "2019",
	}, got.Education[0])
	require.Len(t, got.Ambiguities, 1)
	assert.NotContains(t, got.Ambiguities[0].Text, "\n\n")
}

func TestExtract_ParenthesizedDateRange(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		title   string
		company string
	}{
		{name: "round brackets", line: "Google Inc - Software Engineer (Jan 2019 - Present)", title: "Software Engineer", company: "Google Inc"},
		{name: "square brackets", line: "Google Inc - Software Engineer [Jan 2019 - Present]", title: "Software Engineer", company: "Google Inc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewExtractor(Options{}).Extract([]types.Segment{seg(types.SectionExperience, tt.line)})

			require.Len(t, got.Experience, 1)
			assert.Equal(t, tt.title, got.Experience[0].Title)
			assert.Equal(t, tt.company, got.Experience[0].Company)
			assert.True(t, got.Experience[0].IsCurrent())
		})
	}
}

func TestSplitPieces(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{line: "Software Engineer ( )", want: []string{"Software Engineer"}},
		{line: "Google Inc - Software Engineer [ ]", want: []string{"Google Inc", "Software Engineer"}},
		{line: "Acme, Inc. | Engineer", want: []string{"Acme, Inc.", "Engineer"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, splitPieces(tt.line))
		})
	}
}

func TestExtract_InstitutionEmployerWithoutDegreeIsKept(t *testing.T) {
	text := `Research Assistant
Stanford University
2019 - 2020`

	got := NewExtractor(Options{}).Extract([]types.Segment{seg(types.SectionExperience, text)})

	require.Len(t, got.Experience, 1)
	assert.Equal(t, "Research Assistant", got.Experience[0].Title)
	assert.Equal(t, "Stanford University", got.Experience[0].Company)
	require.Len(t, got.Ambiguities, 1)
	assert.Equal(t, "kept as experience", got.Ambiguities[0].Resolution)
}

func TestExtract_SplitsRangesOnOneLine(t *testing.T) {
	text := "Engineer, Acme Corp 2018 - 2019, Lead Engineer, Acme Corp 2019 - Present"

	got := NewExtractor(Options{}).Extract([]types.Segment{seg(types.SectionExperience, text)})

	require.Len(t, got.Experience, 2)
	assert.Equal(t, "Engineer", got.Experience[0].Title)
	assert.Equal(t, "2019", got.Experience[0].EndDate.String())
	assert.Equal(t, "Lead Engineer", got.Experience[1].Title)
	assert.True(t, got.Experience[1].IsCurrent())
}

func TestExtract_PresentRangePolicy(t *testing.T) {
	text := "Acme Corp | Engineer | 2015 - 2017 / 2018 - Present"

	tests := []struct {
		name      string
		prefer    *bool
		wantStart string
	}{
		{name: "default prefers present", prefer: nil, wantStart: "2018"},
		{name: "explicit true", prefer: boolPtr(true), wantStart: "2018"},
		{name: "disabled keeps first", prefer: boolPtr(false), wantStart: "2015"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewExtractor(Options{PreferPresentRange: tt.prefer}).
				Extract([]types.Segment{seg(types.SectionExperience, text)})
			require.Len(t, got.Experience, 1)
			assert.Equal(t, tt.wantStart, got.Experience[0].StartDate.String())
			assert.Equal(t, "Engineer", got.Experience[0].Title)
			assert.Equal(t, "Acme Corp", got.Experience[0].Company)
		})
	}
}

func TestExtract_MergesDuplicatesPreferringPresent(t *testing.T) {
	text := `Software Engineer, Acme Inc
2019 - Present
- Go services

Acme Inc
2019 - 2020`

	got := NewExtractor(Options{}).Extract([]types.Segment{seg(types.SectionExperience, text)})

	require.Len(t, got.Experience, 1)
	assert.Equal(t, "Software Engineer", got.Experience[0].Title)
	assert.True(t, got.Experience[0].IsCurrent())
}

func TestExtract_DropsEntriesWithoutTitleOrCompany(t *testing.T) {
	text := `2015 - 2016
- Wrote reports.`

	got := NewExtractor(Options{}).Extract([]types.Segment{seg(types.SectionExperience, text)})
	assert.Empty(t, got.Experience)
}

func TestExtract_Skills(t *testing.T) {
	text := `Languages: Python, Go, JavaScript
Frameworks: React/Redux, Django
Developed scalable systems using Python and AWS in 2020`

	got := NewExtractor(Options{}).Extract([]types.Segment{seg(types.SectionSkills, text)})

	assert.Equal(t, []string{"Python", "Go", "Django", "AWS"}, filterKnownOrder(got.Skills.All(), "Python", "Go", "Django", "AWS"))
	assert.Contains(t, got.Skills[types.CategoryFrontend], "JavaScript")
	assert.Contains(t, got.Skills[types.CategoryFrontend], "React")
	assert.Contains(t, got.Skills[types.CategoryFrontend], "Redux")
	assert.Contains(t, got.Skills[types.CategoryDevOps], "AWS")
	assert.Equal(t, 7, got.Skills.Len())
}

// filterKnownOrder keeps the elements of list that appear in want, in list order.
func filterKnownOrder(list []string, want ...string) []string {
	keep := make(map[string]bool, len(want))
	for _, w := range want {
		keep[w] = true
	}
	var out []string
	for _, s := range list {
		if keep[s] {
			out = append(out, s)
		}
	}
	return out
}

func TestSkillTokens(t *testing.T) {
	e := NewExtractor(Options{})

	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "labeled list", line: "Databases: MySQL; MongoDB | Redis", want: []string{"MySQL", "MongoDB", "Redis"}},
		{name: "known slash name kept", line: "CI/CD, Docker", want: []string{"CI/CD", "Docker"}},
		{name: "space separated known words", line: "Python Java SQL", want: []string{"Python", "Java", "SQL"}},
		{name: "parenthetical", line: "Cloud (AWS, GCP)", want: []string{"Cloud", "AWS", "GCP"}},
		{name: "dates rejected", line: "Docker, 2019", want: []string{"Docker"}},
		{name: "trailing period", line: "Node.js, Vue.", want: []string{"Node.js", "Vue"}},
		{name: "bullet", line: "• Terraform", want: []string{"Terraform"}},
		{name: "trailing and", line: "AWS, Docker, Kubernetes and Terraform", want: []string{"AWS", "Docker", "Kubernetes", "Terraform"}},
		{name: "ampersand", line: "Tools: Git & Jenkins", want: []string{"Git", "Jenkins"}},
		{name: "and inside a word kept", line: "Pandas, Ansible", want: []string{"Pandas", "Ansible"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.skillTokens(tt.line))
		})
	}
}

func TestValidSkillToken(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"Kubernetes", true},
		{"machine learning", true},
		{"Implemented caching across four services", false},
		{"2019", false},
		{"10+", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, validSkillToken(tt.token))
		})
	}
}

func TestExtract_SkillsFallBackToVocabularyScan(t *testing.T) {
	segments := []types.Segment{
		seg(types.SectionOther, "I enjoy building things with Python and Docker."),
	}

	got := NewExtractor(Options{}).Extract(segments)
	assert.ElementsMatch(t, []string{"Python", "Docker"}, got.Skills.All())
}

func TestExtract_Education(t *testing.T) {
	text := `Massachusetts Institute of Technology
Master of Science in Electrical Engineering, 2016

B.Tech in Computer Science from IIT Delhi, 2012`

	got := NewExtractor(Options{}).Extract([]types.Segment{seg(types.SectionEducation, text)})

	require.Len(t, got.Education, 2)
	assert.Equal(t, "Massachusetts Institute of Technology", got.Education[0].Institution)
	assert.Equal(t, "Master of Science", got.Education[0].Degree)
	assert.Equal(t, "Electrical Engineering", got.Education[0].Field)
	assert.Equal(t, "2016", got.Education[0].Year)

	assert.Equal(t, "IIT Delhi", got.Education[1].Institution)
	assert.Equal(t, "B.Tech", got.Education[1].Degree)
	assert.Equal(t, "Computer Science", got.Education[1].Field)
	assert.Equal(t, "2012", got.Education[1].Year)
}

func TestExtract_Projects(t *testing.T) {
	text := `Resume Matcher - Scores résumés against job postings
- Tech: Go, PostgreSQL
- github.com/example/matcher

Chat App
Real-time messaging with React and Redis`

	got := NewExtractor(Options{}).Extract([]types.Segment{seg(types.SectionProjects, text)})

	require.Len(t, got.Projects, 2)
	assert.Equal(t, "Resume Matcher", got.Projects[0].Name)
	assert.Equal(t, "github.com/example/matcher", got.Projects[0].URL)
	assert.Contains(t, got.Projects[0].Technologies, "Go")
	assert.Contains(t, got.Projects[0].Technologies, "PostgreSQL")

	assert.Equal(t, "Chat App", got.Projects[1].Name)
	assert.Equal(t, "Real-time messaging with React and Redis", got.Projects[1].Description)
	assert.ElementsMatch(t, []string{"React", "Redis"}, got.Projects[1].Technologies)
}

func TestExtract_Certifications(t *testing.T) {
	text := `AWS Certified Solutions Architect - Amazon Web Services (2021)
Certified Kubernetes Administrator, CNCF, 2020
Scrum Master`

	got := NewExtractor(Options{}).Extract([]types.Segment{seg(types.SectionCertifications, text)})

	require.Len(t, got.Certifications, 3)
	assert.Equal(t, types.Certification{Name: "AWS Certified Solutions Architect", Issuer: "Amazon Web Services", Year: "2021"}, got.Certifications[0])
	assert.Equal(t, types.Certification{Name: "Certified Kubernetes Administrator", Issuer: "CNCF", Year: "2020"}, got.Certifications[1])
	assert.Equal(t, types.Certification{Name: "Scrum Master"}, got.Certifications[2])
}

func TestExtract_Languages(t *testing.T) {
	text := `English (Native), French - B2
Spanish: Fluent, Native Hindi, english`

	got := NewExtractor(Options{}).Extract([]types.Segment{seg(types.SectionLanguages, text)})

	assert.Equal(t, []types.Language{
		{Name: "English", Proficiency: "Native"},
		{Name: "French", Proficiency: "B2"},
		{Name: "Spanish", Proficiency: "Fluent"},
		{Name: "Hindi", Proficiency: "Native"},
	}, got.Languages)
}

func TestExtract_Contact(t *testing.T) {
	segments := []types.Segment{
		seg(types.SectionHeader, "Jane Doe\njane.doe@example.com | +1 555-123-4567"),
		seg(types.SectionExperience, "Engineer, Acme Corp\n2019 - Present"),
	}

	got := NewExtractor(Options{}).Extract(segments)
	assert.Equal(t, Contact{Name: "Jane Doe", Email: "jane.doe@example.com", Phone: "+1 555-123-4567"}, got.Contact)
}

func TestLooksLikeName(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Jane Doe", true},
		{"María José García", true},
		{"Senior Software Engineer", false},
		{"jane doe", false},
		{"Jane", false},
		{"Jane Doe | 555", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, looksLikeName(tt.line))
		})
	}
}
