package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/realm-quiz/internal/question"
)

func TestBuiltinCorpusIsValid(t *testing.T) {
	f, err := Builtin()
	require.NoError(t, err)
	assert.NotEmpty(t, f.Fallback)
	assert.Contains(t, f.Realms, question.GeneralRealm)

	repo, err := f.Repository()
	require.NoError(t, err)
	assert.Equal(t, f.Size(), repo.Size())
	assert.Positive(t, repo.FallbackSize())

	for _, st := range repo.Stats() {
		assert.GreaterOrEqual(t, st.Total, 6, "realm %s should fill a default batch", st.Realm)
		assert.Positive(t, st.Easy, st.Realm)
		assert.Positive(t, st.Medium, st.Realm)
		assert.Positive(t, st.Hard, st.Realm)
	}
}

func TestParseTagsSource(t *testing.T) {
	data := []byte(`
realms:
  r/Gaming:
    - text: "Q1?"
      options: ["a", "b", "c", "d"]
      correct: 1
      difficulty: easy
`)
	f, err := Parse(data, question.SourceFile)
	require.NoError(t, err)
	require.Len(t, f.Realms["r/Gaming"], 1)
	assert.Equal(t, question.SourceFile, f.Realms["r/Gaming"][0].Source)

	repo, err := f.Repository()
	require.NoError(t, err)
	realm, qs := repo.Candidates("gaming")
	assert.Equal(t, "gaming", realm)
	require.Len(t, qs, 1)
	assert.Equal(t, question.SourceFile, qs[0].Source)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	data := []byte(`
fallback:
  - text: "Q?"
    options: ["a", "b", "c", "d"]
    answer: "a"
    difficulty: easy
`)
	_, err := Parse(data, question.SourceFile)
	assert.Error(t, err)
}

func TestRepositoryReportsInvalidQuestions(t *testing.T) {
	data := []byte(`
realms:
  science:
    - text: "Too few"
      options: ["a", "b"]
      correct: 0
      difficulty: easy
`)
	f, err := Parse(data, question.SourceFile)
	require.NoError(t, err)

	_, err = f.Repository()
	var verr *question.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 1)
}

func TestLoadAndMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
realms:
  general:
    - text: "Extra general?"
      options: ["a", "b", "c", "d"]
      correct: 0
      difficulty: hard
  cooking:
    - text: "Boiling point of water at sea level?"
      options: ["90C", "100C", "110C", "120C"]
      correct: 1
      difficulty: easy
`), 0o600))

	extra, err := Load(path)
	require.NoError(t, err)
	base, err := Builtin()
	require.NoError(t, err)
	baseGeneral := len(base.Realms[question.GeneralRealm])

	merged := base.Merge(extra)
	assert.Equal(t, base.Size()+2, merged.Size())
	assert.Len(t, merged.Realms[question.GeneralRealm], baseGeneral+1)
	assert.Len(t, merged.Realms["cooking"], 1)
	assert.Len(t, base.Realms[question.GeneralRealm], baseGeneral, "merge must not modify its receiver")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAddRealm(t *testing.T) {
	var f File
	f.AddRealm("ai", []question.Question{{Text: "x"}})
	assert.Equal(t, 1, f.Size())
}
