package output_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/court-directory-crawler/internal/crawler"
	"github.com/JakeFAU/court-directory-crawler/internal/extract"
	"github.com/JakeFAU/court-directory-crawler/internal/output"
	"github.com/JakeFAU/court-directory-crawler/internal/storage/local"
)

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

type failingStore struct{}

func (failingStore) PutObject(context.Context, string, string, io.Reader) (string, error) {
	return "", errors.New("read-only file system")
}

var runTime = time.Date(2024, 5, 1, 9, 30, 15, 123_000_000, time.UTC)

func TestTimestamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2024-05-01T09-30-15-123Z", output.Timestamp(runTime))
	jst := time.FixedZone("JST", 9*60*60)
	assert.Equal(t, "2024-05-01T09-30-15-123Z", output.Timestamp(runTime.In(jst)))
}

func TestBasename(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input string
		want  string
	}{
		{"https://www.courts.example.jp/tokyo/index.html", "tokyo"},
		{"https://www.courts.example.jp/tokyo/about/kanto.html", "kanto"},
		{"https://www.courts.example.jp/tokyo/", "tokyo"},
		{"https://www.courts.example.jp/", "www_courts_example_jp"},
		{"https://www.courts.example.jp/saiban/list.v2.html", "list_v2"},
		{"https://www.courts.example.jp/東京/index.html", "www_courts_example_jp"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, output.Basename(tc.input), "input %q", tc.input)
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ts_tokyo.txt", output.FileName("ts", "tokyo", ".txt"))
	assert.Equal(t, "ts_all.csv", output.FileName("ts", "all", "csv"))
}

func TestEncodeRecords(t *testing.T) {
	t.Parallel()

	got := output.EncodeRecords([]crawler.FacilityRecord{
		{Name: "東京地方裁判所", Address: `東京都千代田区"霞が関"`, Phone: "03-3581-5411"},
	})
	want := "\"court name\",\"place\",\"phone\"\n" +
		"\"東京地方裁判所\",\"東京都千代田区\"\"霞が関\"\"\",\"03-3581-5411\"\n"
	assert.Equal(t, want, string(got))
}

func TestEncodeNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "甲裁判所\n乙裁判所", string(output.EncodeNames([]string{"甲裁判所", "乙裁判所"})))
	assert.Empty(t, output.EncodeNames(nil))
}

func TestSinkWritesLocalFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := local.New(local.Config{BaseDir: dir})
	require.NoError(t, err)
	sink, err := output.NewSink(store, fakeClock{now: runTime}, "runs", nil)
	require.NoError(t, err)
	ctx := context.Background()

	uri, err := sink.WriteSource(ctx, crawler.SourceResult{
		SourceURL: "https://courts.example.jp/tokyo/index.html",
		Strategy:  extract.AnchorText,
		Names:     []string{"東京地方裁判所", "東京家庭裁判所"},
	})
	require.NoError(t, err)
	textPath := filepath.Join(dir, "runs", "2024-05-01T09-30-15-123Z_tokyo.txt")
	assert.Equal(t, "file://"+textPath, uri)
	// #nosec G304 -- test reads from the controlled temp directory.
	data, err := os.ReadFile(textPath)
	require.NoError(t, err)
	assert.Equal(t, "東京地方裁判所\n東京家庭裁判所", string(data))

	_, err = sink.WriteSource(ctx, crawler.SourceResult{
		SourceURL: "https://courts.example.jp/list/kanto.html",
		Strategy:  extract.TableCell,
		Names:     []string{"東京地方裁判所"},
		Records:   []crawler.FacilityRecord{{Name: "東京地方裁判所", Address: "千代田区", Phone: "03"}},
	})
	require.NoError(t, err)
	// #nosec G304 -- test reads from the controlled temp directory.
	data, err = os.ReadFile(filepath.Join(dir, "runs", "2024-05-01T09-30-15-123Z_kanto.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"court name\",\"place\",\"phone\"\n")

	uri, err = sink.WriteCombined(ctx, []string{"東京地方裁判所"})
	require.NoError(t, err)
	assert.Equal(t, "file://"+filepath.Join(dir, "runs", "2024-05-01T09-30-15-123Z_all.txt"), uri)
}

func TestSinkPropagatesStoreErrors(t *testing.T) {
	t.Parallel()

	sink, err := output.NewSink(failingStore{}, fakeClock{now: runTime}, "", nil)
	require.NoError(t, err)
	_, err = sink.WriteCombined(context.Background(), []string{"甲裁判所"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2024-05-01T09-30-15-123Z_all.txt")
}

func TestNewSinkValidation(t *testing.T) {
	t.Parallel()

	_, err := output.NewSink(nil, fakeClock{}, "", nil)
	require.Error(t, err)
	_, err = output.NewSink(failingStore{}, nil, "", nil)
	require.Error(t, err)
}
