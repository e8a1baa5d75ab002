package ruleset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formcheck/pkg/ruleset"
	"github.com/dmitrymomot/formcheck/pkg/validator"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	cases := map[string]ruleset.Format{
		"rules.yaml":     ruleset.FormatYAML,
		"rules.YML":      ruleset.FormatYAML,
		"dir/rules.json": ruleset.FormatJSON,
		"rules.toml":     ruleset.FormatTOML,
	}
	for path, want := range cases {
		got, err := ruleset.FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := ruleset.FormatFromPath("rules.ini")
	assert.ErrorIs(t, err, ruleset.ErrUnsupportedFormat)
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("compiles specs", func(t *testing.T) {
		rs, err := ruleset.New("login",
			validator.RuleSpec{Name: "user", CheckType: "string", CheckRule: "3,", ErrorMsg: "user too short"},
			validator.RuleSpec{Name: "pass", CheckType: "notnull", ErrorMsg: "password required"},
		)
		require.NoError(t, err)
		assert.Equal(t, "login", rs.Name)
		assert.Len(t, rs.Rules, 2)
		assert.Equal(t, []string{"user", "pass"}, rs.Fields())

		assert.True(t, rs.Check(map[string]any{"user": "bob", "pass": "x"}).Valid)
		res := rs.Check(map[string]any{"user": "bo", "pass": "x"})
		assert.False(t, res.Valid)
		assert.Equal(t, "user too short", res.Message)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := ruleset.New("")
		assert.ErrorIs(t, err, ruleset.ErrEmptyName)
	})

	t.Run("bad check rule", func(t *testing.T) {
		_, err := ruleset.New("broken",
			validator.RuleSpec{Name: "age", CheckType: "between", CheckRule: "18", ErrorMsg: "bad age"},
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, ruleset.ErrCompile)
		assert.ErrorIs(t, err, validator.ErrInvalidRange)
	})

	t.Run("fields deduplicated", func(t *testing.T) {
		rs, err := ruleset.New("dup",
			validator.RuleSpec{Name: "a", CheckType: "notnull", ErrorMsg: "a"},
			validator.RuleSpec{Name: "a", CheckType: "string", CheckRule: "1,3", ErrorMsg: "a len"},
			validator.RuleSpec{Name: "b", CheckType: "email", ErrorMsg: "b"},
		)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, rs.Fields())
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("json numbers become floats", func(t *testing.T) {
		sets, err := ruleset.Parse([]byte(`{"rulesets":{"levels":[
			{"name":"level","checkType":"in","checkRule":[1,2,3],"errorMsg":"bad level"}
		]}}`), ruleset.FormatJSON)
		require.NoError(t, err)

		rs := sets["levels"]
		require.NotNil(t, rs)
		assert.Equal(t, []any{float64(1), float64(2), float64(3)}, rs.Specs[0].CheckRule)
		assert.True(t, rs.Check(map[string]any{"level": float64(2)}).Valid)
		assert.False(t, rs.Check(map[string]any{"level": "2"}).Valid)
	})

	t.Run("malformed rule halts", func(t *testing.T) {
		sets, err := ruleset.Parse([]byte(`
rulesets:
  partial:
    - name: email
      checkType: email
      errorMsg: invalid email
    - name: nickname
      checkType: string
    - name: zip
      checkType: zipcode
      errorMsg: invalid zip
`), ruleset.FormatYAML)
		require.NoError(t, err)

		res := sets["partial"].Check(map[string]any{"email": "a@b.com"})
		assert.True(t, res.Valid)
		assert.Equal(t, validator.OutcomeHalted, res.Outcome)
	})

	t.Run("decode error", func(t *testing.T) {
		_, err := ruleset.Parse([]byte(`{"rulesets": [`), ruleset.FormatJSON)
		assert.ErrorIs(t, err, ruleset.ErrDecode)

		_, err = ruleset.Parse([]byte("rulesets = ["), ruleset.FormatTOML)
		assert.ErrorIs(t, err, ruleset.ErrDecode)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := ruleset.Parse([]byte("x"), ruleset.Format("xml"))
		assert.ErrorIs(t, err, ruleset.ErrUnsupportedFormat)
	})

	t.Run("empty document", func(t *testing.T) {
		sets, err := ruleset.Parse([]byte("rulesets: {}\n"), ruleset.FormatYAML)
		require.NoError(t, err)
		assert.Empty(t, sets)
	})
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("yaml", func(t *testing.T) {
		sets, err := ruleset.LoadFile("testdata/signup.yaml")
		require.NoError(t, err)

		rs := sets["signup"]
		require.NotNil(t, rs)
		assert.Equal(t, "testdata/signup.yaml", rs.Source)

		valid := map[string]any{"email": "jane@example.com", "password": "secret1", "age": "30", "plan": "pro"}
		assert.True(t, rs.Check(valid).Valid)

		res := rs.Check(map[string]any{"email": "jane@example.com", "password": "secret1", "age": "70", "plan": "pro"})
		assert.False(t, res.Valid)
		assert.Equal(t, "age", res.Field)
		assert.Equal(t, "age must be between 18 and 65", res.Message)

		res = rs.Check(map[string]any{"email": "jane@example.com", "password": "secret1", "age": "30", "plan": "gold"})
		assert.Equal(t, "unknown plan", res.Message)
	})

	t.Run("json", func(t *testing.T) {
		sets, err := ruleset.LoadFile("testdata/orders.json")
		require.NoError(t, err)

		rs := sets["order"]
		require.NotNil(t, rs)
		assert.True(t, rs.Check(map[string]any{"qty": "12", "zip": "100000", "level": float64(1)}).Valid)

		res := rs.Check(map[string]any{"qty": "1.5", "zip": "100000", "level": float64(1)})
		assert.Equal(t, "quantity must be a whole number", res.Message)
	})

	t.Run("toml", func(t *testing.T) {
		sets, err := ruleset.LoadFile("testdata/profile.toml")
		require.NoError(t, err)

		rs := sets["profile"]
		require.NotNil(t, rs)
		assert.Equal(t, []string{"phone", "score", "confirm"}, rs.Fields())
		assert.True(t, rs.Check(map[string]any{"phone": "13800138000", "score": "5.5", "confirm": "10"}).Valid)

		res := rs.Check(map[string]any{"phone": "13800138000", "score": "5", "confirm": "10"})
		assert.Equal(t, "score out of range", res.Message)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ruleset.LoadFile("testdata/missing.yaml")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := ruleset.LoadFile("testdata/README.md")
		assert.ErrorIs(t, err, ruleset.ErrUnsupportedFormat)
	})
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	t.Run("testdata", func(t *testing.T) {
		sets, err := ruleset.LoadDir("testdata")
		require.NoError(t, err)
		assert.Len(t, sets, 3)
		assert.Contains(t, sets, "signup")
		assert.Contains(t, sets, "order")
		assert.Contains(t, sets, "profile")
	})

	t.Run("skips hidden files and directories", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.yaml", "rulesets:\n  a:\n    - {name: x, checkType: notnull, errorMsg: x}\n")
		writeFile(t, dir, ".b.yaml", "not: [valid")
		writeFile(t, dir, "notes.txt", "ignored")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))

		sets, err := ruleset.LoadDir(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, keys(sets))
	})

	t.Run("duplicate rule set", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.yaml", "rulesets:\n  shared:\n    - {name: x, checkType: notnull, errorMsg: x}\n")
		writeFile(t, dir, "b.json", `{"rulesets":{"shared":[{"name":"y","checkType":"notnull","errorMsg":"y"}]}}`)

		_, err := ruleset.LoadDir(dir)
		assert.ErrorIs(t, err, ruleset.ErrDuplicate)
	})

	t.Run("broken file fails the load", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.yaml", "rulesets:\n  a:\n    - {name: x, checkType: reg, checkRule: '(', errorMsg: x}\n")

		_, err := ruleset.LoadDir(dir)
		assert.ErrorIs(t, err, ruleset.ErrCompile)
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	sets, err := ruleset.Load("testdata/orders.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"order"}, keys(sets))

	sets, err = ruleset.Load("testdata")
	require.NoError(t, err)
	assert.Len(t, sets, 3)

	_, err = ruleset.Load(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func keys(m map[string]*ruleset.Ruleset) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
