package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/anonto42/nano-blog/backend/internal/models"
)

var (
	postTarget    = models.ReactableRef{Kind: models.KindPost, ID: "64f0c2a9e1b2c3d4e5f60001"}
	otherTarget   = models.ReactableRef{Kind: models.KindPost, ID: "64f0c2a9e1b2c3d4e5f60002"}
	commentTarget = models.ReactableRef{Kind: models.KindComment, ID: "7"}
)

func TestAddLikeIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresLikeRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "alice")

	if err := repo.AddLike(ctx, user.ID, postTarget); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := repo.AddLike(ctx, user.ID, postTarget); err != nil {
		t.Fatalf("second add: %v", err)
	}

	count, err := repo.CountByTarget(ctx, postTarget)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 like after double add, got %d", count)
	}
}

func TestRemoveLikeIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresLikeRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "alice")

	// Unliking something never liked succeeds silently
	if err := repo.RemoveLike(ctx, user.ID, postTarget); err != nil {
		t.Fatalf("remove on empty store: %v", err)
	}

	if err := repo.AddLike(ctx, user.ID, postTarget); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.RemoveLike(ctx, user.ID, postTarget); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := repo.RemoveLike(ctx, user.ID, postTarget); err != nil {
		t.Fatalf("second remove: %v", err)
	}

	count, err := repo.CountByTarget(ctx, postTarget)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 likes after remove, got %d", count)
	}
}

func TestHasUserLikedToggle(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresLikeRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "alice")

	liked, err := repo.HasUserLiked(ctx, user.ID, postTarget)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if liked {
		t.Fatal("expected no like before add")
	}

	if err := repo.AddLike(ctx, user.ID, postTarget); err != nil {
		t.Fatalf("add: %v", err)
	}
	liked, err = repo.HasUserLiked(ctx, user.ID, postTarget)
	if err != nil {
		t.Fatalf("exists after add: %v", err)
	}
	if !liked {
		t.Fatal("expected like after add")
	}

	if err := repo.RemoveLike(ctx, user.ID, postTarget); err != nil {
		t.Fatalf("remove: %v", err)
	}
	liked, err = repo.HasUserLiked(ctx, user.ID, postTarget)
	if err != nil {
		t.Fatalf("exists after remove: %v", err)
	}
	if liked {
		t.Fatal("expected no like after remove")
	}
}

func TestCountByTargetIsolatesTargets(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresLikeRepository(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	// Same post id under a different kind must count separately
	sameIDOtherKind := models.ReactableRef{Kind: models.KindComment, ID: postTarget.ID}

	for _, like := range []struct {
		userID uint
		target models.ReactableRef
	}{
		{alice.ID, postTarget},
		{bob.ID, postTarget},
		{alice.ID, otherTarget},
		{alice.ID, sameIDOtherKind},
	} {
		if err := repo.AddLike(ctx, like.userID, like.target); err != nil {
			t.Fatalf("add %v: %v", like.target, err)
		}
	}

	for _, tc := range []struct {
		target models.ReactableRef
		want   int64
	}{
		{postTarget, 2},
		{otherTarget, 1},
		{sameIDOtherKind, 1},
		{commentTarget, 0},
	} {
		count, err := repo.CountByTarget(ctx, tc.target)
		if err != nil {
			t.Fatalf("count %v: %v", tc.target, err)
		}
		if count != tc.want {
			t.Fatalf("count %v: expected %d, got %d", tc.target, tc.want, count)
		}
	}
}

func TestGetFans(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresLikeRepository(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	fans, err := repo.GetFans(ctx, postTarget)
	if err != nil {
		t.Fatalf("fans on empty store: %v", err)
	}
	if len(fans) != 0 {
		t.Fatalf("expected no fans, got %d", len(fans))
	}

	// A like/unlike cycle before the final state must not produce duplicates
	if err := repo.AddLike(ctx, alice.ID, postTarget); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.RemoveLike(ctx, alice.ID, postTarget); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := repo.AddLike(ctx, alice.ID, postTarget); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if err := repo.AddLike(ctx, bob.ID, postTarget); err != nil {
		t.Fatalf("add bob: %v", err)
	}

	fans, err = repo.GetFans(ctx, postTarget)
	if err != nil {
		t.Fatalf("fans: %v", err)
	}
	if len(fans) != 2 {
		t.Fatalf("expected 2 fans, got %d", len(fans))
	}

	seen := make(map[uint]bool)
	for _, fan := range fans {
		if seen[fan.ID] {
			t.Fatalf("user %s appears twice in fans", fan.Username)
		}
		seen[fan.ID] = true
	}

	count, err := repo.CountByTarget(ctx, postTarget)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != int64(len(fans)) {
		t.Fatalf("count %d does not match fan total %d", count, len(fans))
	}
}

func TestAddLikeConcurrentSingleRow(t *testing.T) {
	db := newTestDB(t)

	// A single pooled connection keeps SQLite happy under concurrent writes;
	// the uniqueness guarantee itself comes from the conflict clause.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	repo := NewPostgresLikeRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "alice")

	const workers = 16
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.AddLike(ctx, user.ID, postTarget)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent add: %v", err)
		}
	}

	count, err := repo.CountByTarget(ctx, postTarget)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 like after %d concurrent adds, got %d", workers, count)
	}
}

func TestDeleteByTarget(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresLikeRepository(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	for _, like := range []struct {
		userID uint
		target models.ReactableRef
	}{
		{alice.ID, postTarget},
		{bob.ID, postTarget},
		{alice.ID, otherTarget},
	} {
		if err := repo.AddLike(ctx, like.userID, like.target); err != nil {
			t.Fatalf("add %v: %v", like.target, err)
		}
	}

	if err := repo.DeleteByTarget(ctx, postTarget); err != nil {
		t.Fatalf("delete by target: %v", err)
	}

	count, err := repo.CountByTarget(ctx, postTarget)
	if err != nil {
		t.Fatalf("count deleted target: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 likes on deleted target, got %d", count)
	}

	// Other targets keep their likes, and analytics sees only theirs
	count, err = repo.CountByTarget(ctx, otherTarget)
	if err != nil {
		t.Fatalf("count other target: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected other target untouched, got %d likes", count)
	}

	times, err := repo.CreatedTimes(ctx)
	if err != nil {
		t.Fatalf("created times: %v", err)
	}
	if len(times) != 1 {
		t.Fatalf("expected 1 remaining timestamp, got %d", len(times))
	}
}

func TestCreatedTimes(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresLikeRepository(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	times, err := repo.CreatedTimes(ctx)
	if err != nil {
		t.Fatalf("created times on empty store: %v", err)
	}
	if len(times) != 0 {
		t.Fatalf("expected no timestamps, got %d", len(times))
	}

	if err := repo.AddLike(ctx, alice.ID, postTarget); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.AddLike(ctx, bob.ID, postTarget); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.AddLike(ctx, alice.ID, commentTarget); err != nil {
		t.Fatalf("add: %v", err)
	}

	times, err = repo.CreatedTimes(ctx)
	if err != nil {
		t.Fatalf("created times: %v", err)
	}
	if len(times) != 3 {
		t.Fatalf("expected 3 timestamps, got %d", len(times))
	}
	for i := 1; i < len(times); i++ {
		if times[i].Before(times[i-1]) {
			t.Fatal("timestamps not in ascending order")
		}
	}
}
