package schemas

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSON_ValidJSON(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "valid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	assert.NoError(t, err)
}

func TestValidateJSON_InvalidJSON_MissingField(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "invalid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_InvalidJSON_WrongType(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "type_mismatch.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_NonExistentSchema(t *testing.T) {
	schemaPath := "testdata/nonexistent_schema.json"
	jsonPath := filepath.Join("testdata", "valid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_NonExistentJSON(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := "testdata/nonexistent_json.json"

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	// Create a temporary malformed JSON file
	tmpDir := t.TempDir()
	malformedJSON := filepath.Join(tmpDir, "malformed.json")
	err := os.WriteFile(malformedJSON, []byte("{ invalid json }"), 0644)
	require.NoError(t, err)

	schemaPath := filepath.Join("testdata", "valid_schema.json")

	valErr := ValidateJSON(schemaPath, malformedJSON)
	require.Error(t, valErr)
	// The error might be from gojsonschema parsing, not our code
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"name": "test"}`

	err := ValidateJSONString(schemaContent, jsonContent)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"age": 30}`

	err := ValidateJSONString(schemaContent, jsonContent)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
}

func TestValidateJSON_NestedFieldValidation(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["person"],
		"properties": {
			"person": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {"type": "string"}
				}
			}
		}
	}`

	jsonContent := `{"person": {}}`

	err := ValidateJSONString(schemaContent, jsonContent)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
	// Check that the field path includes nested field
	found := false
	for _, fieldErr := range validationErr.Errors {
		if fieldErr.Field != "" {
			found = true
			break
		}
	}
	assert.True(t, found, "should include field path in error")
}

func TestValidateJSON_ArrayValidation(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"properties": {
			"items": {
				"type": "array",
				"items": {"type": "string"},
				"minItems": 1
			}
		}
	}`

	err := ValidateJSONString(schemaContent, `{"items": []}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "items", validationErr.Errors[0].Field)

	assert.NoError(t, ValidateJSONString(schemaContent, `{"items": ["Go"]}`))
}

func sampleCandidate() *types.CandidateProfile {
	years := 6.5
	return &types.CandidateProfile{
		ID:      uuid.New(),
		Version: 1,
		Name:    "Jane Doe",
		Experience: []types.ExperienceEntry{{
			Title:        "Senior Engineer",
			Company:      "Acme",
			StartDate:    &types.PartialDate{Year: 2019, Month: 3},
			EndDate:      types.PresentDate(),
			Technologies: []string{"Go"},
		}},
		Education:       []types.EducationEntry{{Degree: "BSc", Institution: "State University", Year: "2015"}},
		Projects:        []types.ProjectEntry{},
		Certifications:  []types.Certification{},
		Languages:       []types.Language{{Name: "English", Proficiency: "native"}},
		Skills:          types.SkillSet{types.CategoryBackend: {"Go"}},
		ExperienceYears: &years,
		RawText:         "Jane Doe",
		BuiltAt:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidateValue(t *testing.T) {
	years := 5.0
	pct := 50.0

	tests := []struct {
		name      string
		schema    string
		value     any
		wantField string
	}{
		{
			name:   "valid candidate profile",
			schema: CandidateProfile,
			value:  sampleCandidate(),
		},
		{
			name:   "candidate without version",
			schema: CandidateProfile,
			value: func() any {
				c := sampleCandidate()
				c.Version = 0
				return c
			}(),
			wantField: "version",
		},
		{
			name:   "candidate with unknown skill category",
			schema: CandidateProfile,
			value: func() any {
				c := sampleCandidate()
				c.Skills = types.SkillSet{"cooking": {"soup"}}
				return c
			}(),
			wantField: "skills",
		},
		{
			name:   "valid job profile",
			schema: JobProfile,
			value: &types.JobProfile{
				ID:                      uuid.New(),
				Version:                 2,
				Title:                   "Backend Engineer",
				RequiredSkills:          []string{"Go"},
				NiceToHaveSkills:        []string{},
				ExperienceYearsRequired: &years,
				Responsibilities:        []string{"Own the billing service"},
				BuiltAt:                 time.Now().UTC(),
			},
		},
		{
			name:   "job profile with empty skill",
			schema: JobProfile,
			value: &types.JobProfile{
				ID:             uuid.New(),
				Version:        1,
				RequiredSkills: []string{""},
			},
			wantField: "required_skills.0",
		},
		{
			name:   "valid match score",
			schema: MatchScore,
			value: &types.MatchScore{
				CandidateID:     uuid.New(),
				JobID:           uuid.New(),
				Overall:         72.5,
				Confidence:      types.ConfidenceHigh,
				DimensionScores: types.DimensionScores{SkillMatch: 90, Experience: 70},
				PercentileRank:  &pct,
				MatchedSkills:   []string{"Go"},
				MissingSkills:   []string{},
				ComputedAt:      time.Now().UTC(),
			},
		},
		{
			name:   "match score out of range",
			schema: MatchScore,
			value: &types.MatchScore{
				CandidateID: uuid.New(),
				JobID:       uuid.New(),
				Overall:     120,
				Confidence:  types.ConfidenceHigh,
			},
			wantField: "overall",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateValue(tt.schema, tt.value)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			fields := make([]string, 0, len(validationErr.Errors))
			for _, fe := range validationErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidateValue_UnknownSchema(t *testing.T) {
	err := ValidateValue("resume_plan", map[string]string{})
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "resume_plan.schema.json", loadErr.Path)
}

func TestValidateBytes_Malformed(t *testing.T) {
	err := ValidateBytes(MatchScore, []byte("{not json"))
	assert.Error(t, err)
}

func TestNames(t *testing.T) {
	for _, name := range Names() {
		_, err := embeddedSchema(name)
		assert.NoError(t, err, name)
	}
}
