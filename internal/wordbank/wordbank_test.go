package wordbank

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/flashbank/pkg/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func load(t *testing.T, path string) *Bank {
	t.Helper()
	bank, err := Load(context.Background(), path, DefaultOptions())
	require.NoError(t, err)
	return bank
}

func mixedBank() *Bank {
	return NewBank([]*models.VocabRecord{
		{Source: "chat", Target: "cat", Correct: 3, Incorrect: 1, Extra: map[string]string{"Note": "animal"}},
		{Source: "chien", Target: "dog", Extra: map[string]string{"Note": ""}},
		{Source: "pomme, rouge", Target: "red \"apple\"", Correct: 0, Incorrect: 7, Extra: map[string]string{"Note": "fruit"}},
		{Source: "été", Target: "summer", Correct: 12, Incorrect: 0, Extra: map[string]string{"Note": "saison"}},
	}, "Note")
}

func TestLoadCSV_MissingCounterColumns(t *testing.T) {
	path := writeFile(t, "words.csv", "French,English\nchat,cat\nchien,dog\n")

	bank := load(t, path)

	require.Equal(t, 2, bank.Len())
	for _, rec := range bank.Records() {
		assert.Zero(t, rec.Correct)
		assert.Zero(t, rec.Incorrect)
	}
	assert.Equal(t, "chat", bank.Records()[0].Source)
	assert.Equal(t, "dog", bank.Records()[1].Target)
}

func TestLoadCSV_NullCellsAndFloatCounters(t *testing.T) {
	path := writeFile(t, "words.csv",
		"French,English,Correct,Incorrect,Ratio\n"+
			"chat,cat,2.0,,0.5\n"+
			"chien,dog,,NaN,\n"+
			"pomme,apple,4,1,0.8\n")

	bank := load(t, path)

	require.Equal(t, 3, bank.Len())
	assert.Equal(t, models.VocabRecord{Source: "chat", Target: "cat", Correct: 2}, *bank.Records()[0])
	assert.Equal(t, models.VocabRecord{Source: "chien", Target: "dog"}, *bank.Records()[1])
	assert.Equal(t, 4, bank.Records()[2].Correct)
	assert.Equal(t, 1, bank.Records()[2].Incorrect)
	assert.Empty(t, bank.ExtraColumns(), "Ratio is derived and must not be kept")
}

func TestLoadCSV_ByteOrderMarkAndCustomColumns(t *testing.T) {
	path := writeFile(t, "words.csv", "\ufeffSpanish,English\ngato,cat\n")

	bank, err := Load(context.Background(), path, Options{Columns: Columns{Source: "Spanish", Target: "English"}})
	require.NoError(t, err)
	require.Equal(t, 1, bank.Len())
	assert.Equal(t, "gato", bank.Records()[0].Source)
}

func TestLoadCSV_SkipsBlankRows(t *testing.T) {
	path := writeFile(t, "words.csv", "French,English\nchat,cat\n,\nchien,dog\n")
	assert.Equal(t, 2, load(t, path).Len())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{"missing source column", "words.csv", "Spanish,English\ngato,cat\n", ErrMissingColumn},
		{"missing target column", "words.csv", "French,German\nchat,Katze\n", ErrMissingColumn},
		{"empty file", "words.csv", "", ErrMissingColumn},
		{"negative counter", "words.csv", "French,English,Correct\nchat,cat,-1\n", ErrMalformed},
		{"fractional counter", "words.csv", "French,English,Incorrect\nchat,cat,1.5\n", ErrMalformed},
		{"text counter", "words.csv", "French,English,Correct\nchat,cat,many\n", ErrMalformed},
		{"unsupported format", "words.json", "{}", ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := Load(context.Background(), path, DefaultOptions())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	dbPath := filepath.Join(t.TempDir(), "nope.db")
	_, err = OpenExisting(dbPath, DefaultOptions())
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, dbPath)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	for _, name := range []string{"bank.csv", "bank.tsv", "bank.xlsx"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := mixedBank()

			require.NoError(t, Save(context.Background(), path, DefaultOptions(), want))
			got := load(t, path)

			assert.Equal(t, want.ExtraColumns(), got.ExtraColumns())
			assert.Equal(t, want.Snapshot(), got.Snapshot())
		})
	}
}

func TestSaveLoad_ExcelNamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.xlsx")
	opts := Options{Columns: DefaultColumns(), Sheet: "Vocabulary"}

	require.NoError(t, Save(context.Background(), path, opts, mixedBank()))

	got, err := Load(context.Background(), path, opts)
	require.NoError(t, err)
	assert.Equal(t, mixedBank().Snapshot(), got.Snapshot())

	// The named sheet is also the active one.
	got, err = Load(context.Background(), path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 4, got.Len())
}

func TestSaveLoad_SQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.db")
	bank := mixedBank()

	require.NoError(t, Save(context.Background(), path, DefaultOptions(), bank))
	got := load(t, path)

	want := bank.Snapshot()
	for i := range want {
		want[i].Extra = nil // SQL stores keep terms and counters only
	}
	assert.Equal(t, want, got.Snapshot())

	// A second save fully replaces the first.
	bank.Records()[0].Correct = 99
	smaller := NewBank(bank.Records()[:1])
	require.NoError(t, Save(context.Background(), path, DefaultOptions(), smaller))
	got = load(t, path)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, 99, got.Records()[0].Correct)
}

func TestSave_OverwritesWithoutIndexColumn(t *testing.T) {
	path := writeFile(t, "words.csv", "French,English,Ratio\nchat,cat,\n")

	bank := load(t, path)
	bank.Records()[0].Correct = 1
	require.NoError(t, Save(context.Background(), path, DefaultOptions(), bank))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "French,English,Correct,Incorrect\nchat,cat,1,0\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestSave_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err := Save(context.Background(), filepath.Join(blocker, "bank.csv"), DefaultOptions(), mixedBank())
	assert.Error(t, err)
}

func TestBank_FindAndSnapshotIsolation(t *testing.T) {
	bank := mixedBank()

	rec := bank.Find("chien")
	require.NotNil(t, rec)
	assert.Equal(t, "dog", rec.Target)
	assert.Nil(t, bank.Find("loup"))

	snap := bank.Snapshot()
	snap[0].Correct = 100
	snap[0].Extra["Note"] = "changed"
	assert.Equal(t, 3, bank.Records()[0].Correct)
	assert.Equal(t, "animal", bank.Records()[0].Extra["Note"])
}

func TestOpen_Dispatch(t *testing.T) {
	dir := t.TempDir()

	st, err := Open(filepath.Join(dir, "a.CSV"), Options{})
	require.NoError(t, err)
	assert.IsType(t, &CSVStore{}, st)
	assert.Equal(t, DefaultColumns(), st.(*CSVStore).Columns)

	st, err = Open(filepath.Join(dir, "a.tsv"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, '\t', st.(*CSVStore).Comma)

	st, err = Open(filepath.Join(dir, "a.xlsx"), DefaultOptions())
	require.NoError(t, err)
	assert.IsType(t, &ExcelStore{}, st)

	st, err = Open(filepath.Join(dir, "a.sqlite"), DefaultOptions())
	require.NoError(t, err)
	assert.IsType(t, &SQLStore{}, st)
	require.NoError(t, st.Close())

	_, err = Open(filepath.Join(dir, "a.txt"), DefaultOptions())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseCounter(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"0", 0, false},
		{"17", 17, false},
		{"3.0", 3, false},
		{"nan", 0, false},
		{"-2", 0, true},
		{"-2.0", 0, true},
		{"0.5", 0, true},
		{"Inf", 0, true},
		{"x", 0, true},
		{"2147483647", 2147483647, false},
		{"2147483647.0", 2147483647, false},
		{"3000000000", 0, true},
		{"3000000000.0", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCounter(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
