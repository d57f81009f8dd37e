package axis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/otslice/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Axes of the Recursive variable font.
func recursiveAxes() []Descriptor {
	return []Descriptor{
		{Tag: "MONO", Min: 0, Default: 0, Max: 1},
		{Tag: "CASL", Min: 0, Default: 0, Max: 1},
		{Tag: "wght", Min: 300, Default: 300, Max: 1000},
		{Tag: "slnt", Min: -15, Default: 0, Max: 0},
		{Tag: "CRSV", Min: 0, Default: 0.5, Max: 1},
	}
}

func TestBuildRequestLeavesEmptyAxesVariable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otslice.axis")
	defer teardown()
	//
	entries := Entries{"MONO": "", "CASL": "", "wght": "300", "slnt": "0", "CRSV": "0.5"}
	req, err := BuildRequest(entries, recursiveAxes())
	require.NoError(t, err)
	want := map[Tag]Value{"wght": Pin(300), "slnt": Pin(0), "CRSV": Pin(0.5)}
	if diff := cmp.Diff(want, req.Map(), cmp.AllowUnexported(Value{})); diff != "" {
		t.Errorf("instance map mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []Tag{"MONO", "CASL"}, req.Variable(recursiveAxes()))
	assert.Equal(t, []string{"wght=300", "slnt=0", "CRSV=0.5"}, req.Args())
	assert.True(t, req.HasAxes())
}

func TestBuildRequestKeepsDeclaredOrder(t *testing.T) {
	entries := Entries{"CRSV": "0:1", "MONO": "1", "slnt": "-15:0"}
	req, err := BuildRequest(entries, recursiveAxes())
	require.NoError(t, err)
	var tags []Tag
	for _, s := range req.Settings() {
		tags = append(tags, s.Tag)
	}
	assert.Equal(t, []Tag{"MONO", "slnt", "CRSV"}, tags)
	assert.Equal(t, "{MONO=1, slnt=-15:0, CRSV=0:1}", req.String())
}

func TestBuildRequestAbortsOnFirstError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otslice.axis")
	defer teardown()
	//
	req, err := BuildRequest(Entries{"wght": "100:200", "MONO": "1"}, recursiveAxes())
	require.Error(t, err)
	assert.Equal(t, core.EDEFAULTRANGE, core.Code(err))
	assert.False(t, req.HasAxes(), "expected no partial request on failure")

	_, err = BuildRequest(Entries{"wght": "BOGUSVALUE"}, recursiveAxes())
	assert.Equal(t, core.EINVALIDVALUE, core.Code(err))
}

func TestBuildRequestRejectsUnknownAxis(t *testing.T) {
	_, err := BuildRequest(Entries{"wdth": "100"}, recursiveAxes())
	assert.Equal(t, core.EUNKNOWNAXIS, core.Code(err))
	// an empty entry for an unknown axis is harmless
	_, err = BuildRequest(Entries{"wdth": ""}, recursiveAxes())
	assert.NoError(t, err)
}

func TestEmptyRequestIsUsageError(t *testing.T) {
	req, err := BuildRequest(Entries{}, recursiveAxes())
	require.NoError(t, err)
	assert.False(t, req.HasAxes())
	assert.Equal(t, core.ENOAXES, core.Code(req.Validate()))
	assert.Len(t, req.Variable(recursiveAxes()), 5)
}

func TestVariableAxesRoundTrip(t *testing.T) {
	descs := recursiveAxes()
	cases := []Entries{
		{"wght": "400"},
		{"MONO": " ", "CASL": "0.5", "slnt": "-15:0"},
		{"MONO": "0", "CASL": "0", "wght": "300", "slnt": "0", "CRSV": "0.5"},
	}
	for _, entries := range cases {
		req, err := BuildRequest(entries, descs)
		require.NoError(t, err)
		var empty []Tag
		for _, d := range descs {
			if v, err := ParseValue(d, entries[d.Tag]); err == nil && !v.IsSet() {
				empty = append(empty, d.Tag)
			}
		}
		assert.Equal(t, empty, req.Variable(descs), "entries %v", entries)
		for _, tag := range req.Variable(descs) {
			_, present := req.Map()[tag]
			assert.False(t, present)
		}
	}
}

func TestRegistryLookupOrder(t *testing.T) {
	r := NewRegistry(map[Tag]string{"wght": "Boldness", "ZZZZ": "Zigzag", "QQQQ": ""})
	name, ok := r.Name("wght")
	assert.True(t, ok)
	assert.Equal(t, "Weight", name, "registered name must win over font name")
	name, _ = r.Name("CRSV")
	assert.Equal(t, "Cursive", name)
	name, _ = r.Name("ZZZZ")
	assert.Equal(t, "Zigzag", name)
	_, ok = r.Name("QQQQ")
	assert.False(t, ok)
	assert.Equal(t, "YYYY", r.Label("YYYY"))
	assert.True(t, IsRegistered("opsz"))
	assert.False(t, IsRegistered("GRAD"))
}

func TestDescriptorValidate(t *testing.T) {
	assert.NoError(t, Descriptor{Tag: "wght", Min: 100, Default: 400, Max: 900}.Validate())
	assert.Error(t, Descriptor{Tag: "wght", Min: 500, Default: 400, Max: 900}.Validate())
	assert.Error(t, Descriptor{Tag: "wg", Min: 0, Default: 0, Max: 1}.Validate())
	assert.Equal(t, "(-15, 0) [0]", recursiveAxes()[3].Summary())
}
