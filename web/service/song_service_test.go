package service

import (
	"testing"

	"github.com/ku-unplugged/livelog/database/model"
	"github.com/ku-unplugged/livelog/web/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestLive(t *testing.T, date string) *model.Live {
	t.Helper()
	service := LiveService{}
	live, errs, err := service.CreateLive(&entity.LiveForm{
		Name:  "夏ライブ",
		Date:  date,
		Place: "吉田食堂",
	})
	require.NoError(t, err)
	require.False(t, errs.Any(), "unexpected validation errors: %v", errs)
	return live
}

func TestLiveCRUD(t *testing.T) {
	setup()
	defer teardown()

	service := LiveService{}
	live := createTestLive(t, "2030-08-01")

	got, err := service.GetLive(live.Id)
	require.NoError(t, err)
	assert.Equal(t, "夏ライブ", got.Name)

	updated, errs, err := service.UpdateLive(live.Id, &entity.LiveForm{
		Name:  "秋ライブ",
		Date:  "2030-11-01",
		Place: "西部講堂",
	})
	require.NoError(t, err)
	require.False(t, errs.Any())
	assert.Equal(t, "秋ライブ", updated.Name)

	lives, err := service.ListLives()
	require.NoError(t, err)
	assert.Len(t, lives, 1)

	require.NoError(t, service.DeleteLive(live.Id))
	_, err = service.GetLive(live.Id)
	assert.Error(t, err)
}

func TestGetFirstLive(t *testing.T) {
	setup()
	defer teardown()

	service := LiveService{}
	_, err := service.GetFirstLive()
	assert.Error(t, err)

	past := createTestLive(t, "2020-08-01")
	far := createTestLive(t, "2031-03-01")
	near := createTestLive(t, "2030-08-01")

	got, err := service.GetFirstLive()
	require.NoError(t, err)
	assert.Equal(t, near.Id, got.Id)

	require.NoError(t, service.DeleteLive(near.Id))
	require.NoError(t, service.DeleteLive(far.Id))

	got, err = service.GetFirstLive()
	require.NoError(t, err)
	assert.Equal(t, past.Id, got.Id)
}

func TestLiveValidation(t *testing.T) {
	setup()
	defer teardown()

	service := LiveService{}
	_, errs, err := service.CreateLive(&entity.LiveForm{Name: "", Date: ""})
	require.NoError(t, err)
	assert.NotEmpty(t, errs["name"])
	assert.NotEmpty(t, errs["date"])

	_, errs, err = service.CreateLive(&entity.LiveForm{Name: "x", Date: "not-a-date"})
	require.NoError(t, err)
	assert.NotEmpty(t, errs["date"])
}

func TestSongCreateWithPlayings(t *testing.T) {
	setup()
	defer teardown()

	live := createTestLive(t, "2030-08-01")
	account := createTestAccount(t, "player@example.com")

	service := SongService{}
	song, errs, err := service.CreateSong(&entity.SongForm{
		LiveId: live.Id,
		Name:   "ハルノヒ",
		Artist: "あいみょん",
		Playings: []entity.PlayingForm{
			{AccountId: account.Id, Inst: "vocal"},
			{AccountId: account.Id, Inst: "guitar"},
		},
	})
	require.NoError(t, err)
	require.False(t, errs.Any())
	assert.Equal(t, model.SongDraft, song.Status)

	got, err := service.GetSong(song.Id)
	require.NoError(t, err)
	require.NotNil(t, got.Live)
	assert.Equal(t, live.Id, got.Live.Id)
	assert.Len(t, got.Playings, 2)
	assert.True(t, got.PlayedBy(account.Id))
}

func TestSongValidationFails(t *testing.T) {
	setup()
	defer teardown()

	service := SongService{}
	_, errs, err := service.CreateSong(&entity.SongForm{})
	require.NoError(t, err)
	assert.NotEmpty(t, errs["name"])
	assert.NotEmpty(t, errs["live"])
}

func TestSongUpdateReplacesPlayings(t *testing.T) {
	setup()
	defer teardown()

	live := createTestLive(t, "2030-08-01")
	first := createTestAccount(t, "first@example.com")
	second := createTestAccount(t, "second@example.com")

	service := SongService{}
	song, _, err := service.CreateSong(&entity.SongForm{
		LiveId:   live.Id,
		Name:     "曲",
		Playings: []entity.PlayingForm{{AccountId: first.Id, Inst: "vocal"}},
	})
	require.NoError(t, err)

	_, errs, err := service.UpdateSong(song.Id, &entity.SongForm{
		Name:     "改名した曲",
		Status:   model.SongConfirmed,
		Playings: []entity.PlayingForm{{AccountId: second.Id, Inst: "bass"}},
	})
	require.NoError(t, err)
	require.False(t, errs.Any())

	got, err := service.GetSong(song.Id)
	require.NoError(t, err)
	assert.Equal(t, "改名した曲", got.Name)
	assert.Equal(t, model.SongConfirmed, got.Status)
	require.Len(t, got.Playings, 1)
	assert.Equal(t, second.Id, got.Playings[0].AccountId)
	assert.False(t, got.PlayedBy(first.Id))
}

func TestSongSearchAndPagination(t *testing.T) {
	setup()
	defer teardown()

	t.Setenv("LIVELOG_PAGE_SIZE", "2")

	live := createTestLive(t, "2030-08-01")
	service := SongService{}
	for _, name := range []string{"Lemon", "カブトムシ", "Lemon Tree"} {
		_, errs, err := service.CreateSong(&entity.SongForm{LiveId: live.Id, Name: name})
		require.NoError(t, err)
		require.False(t, errs.Any())
	}

	page, err := service.Search("", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Songs, 2)

	page, err = service.Search("", 2)
	require.NoError(t, err)
	assert.Len(t, page.Songs, 1)

	page, err = service.Search("Lemon", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = service.Search("存在しない", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	assert.Empty(t, page.Songs)
}

func TestSongDeleteRemovesPlayings(t *testing.T) {
	setup()
	defer teardown()

	live := createTestLive(t, "2030-08-01")
	account := createTestAccount(t, "gone@example.com")

	service := SongService{}
	song, _, err := service.CreateSong(&entity.SongForm{
		LiveId:   live.Id,
		Name:     "消える曲",
		Playings: []entity.PlayingForm{{AccountId: account.Id, Inst: "drums"}},
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteSong(song.Id))
	_, err = service.GetSong(song.Id)
	assert.Error(t, err)
}
