package preview

import (
	"strings"
	"testing"

	"github.com/mariana/devlink-assistant/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestRenderEmptyRecord(t *testing.T) {
	out := Render(types.ConversationRecord{})

	assert.Equal(t, EmptyPlaceholder, out)
	assert.NotContains(t, out, "##")
}

func TestRenderOmitsEmptySections(t *testing.T) {
	record := types.ConversationRecord{
		PersonalInfo: types.PersonalInfo{FullName: "Ana Silva", Email: "ana@x.com"},
		Skills:       []string{"Go", "Rust"},
	}

	out := Render(record)

	assert.Contains(t, out, "## Personal")
	assert.Contains(t, out, "## Skills")
	assert.NotContains(t, out, "## Education")
	assert.NotContains(t, out, "## Experience")
	assert.NotContains(t, out, "## Projects")
}

func TestRenderSectionOrder(t *testing.T) {
	record := types.ConversationRecord{
		PersonalInfo: types.PersonalInfo{FullName: "Ana Silva"},
		Education:    []types.Education{{ID: "e1", Institution: "USP", Degree: "CS", Level: "Bachelor's Degree", Period: "2018 - 2022"}},
		Experience:   []types.Experience{{ID: "x1", Company: "Acme", Role: "Engineer", Period: "2022 - 2024"}},
		Projects:     []types.Project{{ID: "p1", Name: "devlink"}},
		Languages:    []types.Language{{Name: "English", Proficiency: types.ProficiencyFluent}},
		Certificates: []types.Certificate{{ID: "c1", Name: "CKA", Issuer: "CNCF", Year: "2023"}},
		Skills:       []string{"Go"},
	}

	out := Render(record)

	order := []string{"## Personal", "## Education", "## Experience", "## Projects", "## Languages", "## Certificates", "## Skills"}
	last := -1
	for _, heading := range order {
		idx := strings.Index(out, heading)
		assert.Greater(t, idx, last, "%s out of order", heading)
		last = idx
	}
}

func TestRenderDoesNotMutateRecord(t *testing.T) {
	record := types.ConversationRecord{Skills: []string{"Go"}}
	_ = Render(record)

	assert.Equal(t, []string{"Go"}, record.Skills)
}

func TestRenderExperienceDetails(t *testing.T) {
	record := types.ConversationRecord{
		Experience: []types.Experience{
			{ID: "x1", Company: "Acme", Role: "Engineer", Period: "2020 - 2023", Description: "built APIs"},
		},
	}

	out := Render(record)

	assert.Contains(t, out, "Engineer at Acme, 2020 - 2023: built APIs")
}
