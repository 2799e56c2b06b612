package service

import (
	"testing"
	"time"

	"github.com/fruitfulhq/storefront-backend/internal/app/repository"
	"github.com/fruitfulhq/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAnnouncementService(t *testing.T) AnnouncementService {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewAnnouncementService(repository.NewAnnouncementRepository(testDB))
}

func TestCreateAnnouncement(t *testing.T) {
	svc := setupAnnouncementService(t)

	announcement, err := svc.CreateAnnouncement(AnnouncementInput{
		Title:     "Summer lineup",
		Body:      "Three new cold-pressed blends.",
		ImageURLs: []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
		StartsAt:  time.Now().Add(-time.Hour),
		Published: true,
	})
	require.NoError(t, err)
	assert.NotZero(t, announcement.ID)
	assert.Len(t, announcement.ImageURLs, 2)
}

func TestListLiveAnnouncements(t *testing.T) {
	svc := setupAnnouncementService(t)

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	longGone := now.Add(-2 * time.Hour)

	_, err := svc.CreateAnnouncement(AnnouncementInput{Title: "live", StartsAt: past, Published: true})
	require.NoError(t, err)
	_, err = svc.CreateAnnouncement(AnnouncementInput{Title: "draft", StartsAt: past, Published: false})
	require.NoError(t, err)
	_, err = svc.CreateAnnouncement(AnnouncementInput{Title: "scheduled", StartsAt: future, Published: true})
	require.NoError(t, err)
	_, err = svc.CreateAnnouncement(AnnouncementInput{Title: "ended", StartsAt: longGone, EndsAt: &past, Published: true})
	require.NoError(t, err)

	live, err := svc.ListLive()
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "live", live[0].Title)

	all, err := svc.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestUpdateAnnouncement(t *testing.T) {
	svc := setupAnnouncementService(t)

	announcement, err := svc.CreateAnnouncement(AnnouncementInput{
		Title:     "Summer lineup",
		StartsAt:  time.Now(),
		Published: false,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateAnnouncement(announcement.ID, AnnouncementInput{
		Title:     "Summer lineup, extended",
		StartsAt:  announcement.StartsAt,
		Published: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Summer lineup, extended", updated.Title)
	assert.True(t, updated.Published)

	_, err = svc.UpdateAnnouncement(9999, AnnouncementInput{Title: "x"})
	assert.ErrorIs(t, err, ErrAnnouncementNotFound)
}

func TestDeleteAnnouncement(t *testing.T) {
	svc := setupAnnouncementService(t)

	announcement, err := svc.CreateAnnouncement(AnnouncementInput{
		Title:    "fleeting",
		StartsAt: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAnnouncement(announcement.ID))

	_, err = svc.GetAnnouncement(announcement.ID)
	assert.ErrorIs(t, err, ErrAnnouncementNotFound)
}

func TestUnpublishEndedAnnouncements(t *testing.T) {
	svc := setupAnnouncementService(t)

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	_, err := svc.CreateAnnouncement(AnnouncementInput{Title: "over", StartsAt: now.Add(-2 * time.Hour), EndsAt: &past, Published: true})
	require.NoError(t, err)
	keep, err := svc.CreateAnnouncement(AnnouncementInput{Title: "running", StartsAt: past, EndsAt: &future, Published: true})
	require.NoError(t, err)

	count, err := svc.UnpublishEnded()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	still, err := svc.GetAnnouncement(keep.ID)
	require.NoError(t, err)
	assert.True(t, still.Published)
}
