package source

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"prompt-mixer/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func objectChannel(infos ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(infos))
	for _, info := range infos {
		ch <- info
	}
	close(ch)
	return ch
}

func body(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}

func TestFetchMasterSheets_JSON(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "sheets").Return(true, nil)
	client.On("ListObjects", mock.Anything, "sheets", mock.Anything).
		Return(objectChannel(minio.ObjectInfo{Key: "sheets/environments.json"}))
	client.On("GetObject", mock.Anything, "sheets", "sheets/environments.json", mock.Anything).
		Return(body(`{
			"sheetName": "environments",
			"groupName": "world",
			"linkedInstruction": "keep it grounded",
			"libraries": [{"name": "Scene", "values": ["room", "beach"]}]
		}`), nil)

	adapter := NewBucketAdapter(client, "sheets", "sheets/")
	sheets, err := adapter.FetchMasterSheets(context.Background())

	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.Equal(t, "environments", sheets[0].SheetName)
	assert.Equal(t, "world", sheets[0].GroupName)
	assert.Equal(t, "keep it grounded", sheets[0].LinkedInstruction)
	require.Len(t, sheets[0].Libraries, 1)
	assert.Equal(t, []string{"room", "beach"}, sheets[0].Libraries[0].Values)
}

func TestFetchMasterSheets_CSVFallback(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "sheets").Return(true, nil)
	client.On("ListObjects", mock.Anything, "sheets", mock.Anything).
		Return(objectChannel(
			minio.ObjectInfo{Key: "sheets/moods.csv"},
			minio.ObjectInfo{Key: "sheets/readme.txt"}, // ignored
		))
	client.On("GetObject", mock.Anything, "sheets", "sheets/moods.csv", mock.Anything).
		Return(body("Mood,Mood_category\ncalm,indoor\nwild,outdoor\n"), nil)

	adapter := NewBucketAdapter(client, "sheets", "sheets/")
	sheets, err := adapter.FetchMasterSheets(context.Background())

	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.Equal(t, "moods", sheets[0].SheetName)
	require.Len(t, sheets[0].Libraries, 1)
	assert.Equal(t, []string{"calm", "wild"}, sheets[0].Libraries[0].Values)
	assert.Equal(t, []string{"indoor"}, sheets[0].Libraries[0].ValuesWithCategory["calm"])
}

func TestFetchMasterSheets_MissingBucket(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "sheets").Return(false, nil)

	adapter := NewBucketAdapter(client, "sheets", "sheets/")
	_, err := adapter.FetchMasterSheets(context.Background())
	assert.Error(t, err)
}

func TestFetchMasterSheets_FetchErrorAborts(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "sheets").Return(true, nil)
	client.On("ListObjects", mock.Anything, "sheets", mock.Anything).
		Return(objectChannel(
			minio.ObjectInfo{Key: "sheets/a.json"},
			minio.ObjectInfo{Key: "sheets/b.json"},
		))
	client.On("GetObject", mock.Anything, "sheets", "sheets/a.json", mock.Anything).
		Return(nil, errors.New("connection reset"))

	adapter := NewBucketAdapter(client, "sheets", "sheets/")
	_, err := adapter.FetchMasterSheets(context.Background())
	assert.Error(t, err, "a partial fetch must abort, never feed the engine")
}

func TestFetchMasterSheets_MalformedJSONAborts(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "sheets").Return(true, nil)
	client.On("ListObjects", mock.Anything, "sheets", mock.Anything).
		Return(objectChannel(minio.ObjectInfo{Key: "sheets/bad.json"}))
	client.On("GetObject", mock.Anything, "sheets", "sheets/bad.json", mock.Anything).
		Return(body("{not json"), nil)

	adapter := NewBucketAdapter(client, "sheets", "sheets/")
	_, err := adapter.FetchMasterSheets(context.Background())
	assert.Error(t, err)
}
