package handler

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	models "github.com/sarathradhan/social-media-app/model"
	"github.com/sarathradhan/social-media-app/pkg/errs"
)

// In-memory implementations of the repository interfaces, sharing one state
// so cross-aggregate behavior (feed annotations, like sweeps on post delete,
// explore follow flags) can be exercised without a database.

type likeKey struct {
	userID uuid.UUID
	postID uuid.UUID
}

type edgeKey struct {
	followerID  uuid.UUID
	followingID uuid.UUID
}

type fakeState struct {
	mu      sync.Mutex
	users   map[uuid.UUID]models.User
	posts   map[uuid.UUID]models.Post
	likes   map[likeKey]time.Time
	follows map[edgeKey]time.Time
}

func newFakeState() *fakeState {
	return &fakeState{
		users:   make(map[uuid.UUID]models.User),
		posts:   make(map[uuid.UUID]models.Post),
		likes:   make(map[likeKey]time.Time),
		follows: make(map[edgeKey]time.Time),
	}
}

func (s *fakeState) addUser(username string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := models.User{ID: uuid.New(), Username: username, CreatedAt: time.Now()}
	s.users[user.ID] = user
	return user
}

func (s *fakeState) addPost(owner models.User, caption string, createdAt time.Time) models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	post := models.Post{
		ID:        uuid.New(),
		UserID:    owner.ID,
		Username:  owner.Username,
		Caption:   caption,
		ImageURL:  "/uploads/" + uuid.NewString() + ".jpg",
		CreatedAt: createdAt,
	}
	s.posts[post.ID] = post
	return post
}

func (s *fakeState) likeCount(postID uuid.UUID) int32 {
	var n int32
	for key := range s.likes {
		if key.postID == postID {
			n++
		}
	}
	return n
}

// --- UserRepository ---

type fakeUsers struct{ *fakeState }

func (f *fakeUsers) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username {
			return errs.E(errs.Conflict, "username already taken")
		}
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindOrCreateByGoogleID(ctx context.Context, googleID, username string, avatarURL *string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return &u, nil
		}
	}
	// Username collision attaches the external id to the existing row.
	for id, u := range f.users {
		if u.Username == username {
			u.GoogleID = &googleID
			u.ProfilePicURL = avatarURL
			f.users[id] = u
			return &u, nil
		}
	}
	user := models.User{
		ID:            uuid.New(),
		Username:      username,
		GoogleID:      &googleID,
		ProfilePicURL: avatarURL,
		CreatedAt:     time.Now(),
	}
	f.users[user.ID] = user
	return &user, nil
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, userID uuid.UUID, bio *string, avatarURL *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return errs.E(errs.NotFound, "user not found")
	}
	if bio != nil {
		trimmed := strings.TrimSpace(*bio)
		user.Bio = &trimmed
	}
	if avatarURL != nil {
		user.ProfilePicURL = avatarURL
	}
	f.users[userID] = user
	return nil
}

func (f *fakeUsers) ListExplore(ctx context.Context, viewerID uuid.UUID) ([]models.ExploreUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ExploreUser{}
	for _, u := range f.users {
		if u.ID == viewerID {
			continue
		}
		_, following := f.follows[edgeKey{followerID: viewerID, followingID: u.ID}]
		out = append(out, models.ExploreUser{
			ID:            u.ID,
			Username:      u.Username,
			ProfilePicURL: u.ProfilePicURL,
			IsFollowing:   following,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// --- PostRepository ---

type fakePosts struct{ *fakeState }

func (f *fakePosts) Create(ctx context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts[post.ID] = *post
	return nil
}

func (f *fakePosts) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.posts[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakePosts) annotate(post models.Post, viewerID uuid.UUID) models.FeedPost {
	owner := f.users[post.UserID]
	_, liked := f.likes[likeKey{userID: viewerID, postID: post.ID}]
	return models.FeedPost{
		ID:            post.ID,
		UserID:        post.UserID,
		Username:      post.Username,
		Caption:       post.Caption,
		ImageURL:      post.ImageURL,
		CreatedAt:     post.CreatedAt,
		ProfilePicURL: owner.ProfilePicURL,
		LikeCount:     f.likeCount(post.ID),
		UserLiked:     liked,
	}
}

func (f *fakePosts) ListFeed(ctx context.Context, viewerID uuid.UUID) ([]models.FeedPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.FeedPost{}
	for _, p := range f.posts {
		out = append(out, f.annotate(p, viewerID))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakePosts) ListByUser(ctx context.Context, viewerID, userID uuid.UUID) ([]models.FeedPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.FeedPost{}
	for _, p := range f.posts {
		if p.UserID == userID {
			out = append(out, f.annotate(p, viewerID))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakePosts) ListLiked(ctx context.Context, userID uuid.UUID) ([]models.FeedPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.FeedPost{}
	for key := range f.likes {
		if key.userID != userID {
			continue
		}
		if p, ok := f.posts[key.postID]; ok {
			out = append(out, f.annotate(p, userID))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakePosts) Delete(ctx context.Context, postID, ownerID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[postID]
	if !ok || post.UserID != ownerID {
		return nil
	}
	for key := range f.likes {
		if key.postID == postID {
			delete(f.likes, key)
		}
	}
	delete(f.posts, postID)
	return nil
}

// --- LikeRepository ---

type fakeLikes struct{ *fakeState }

func (f *fakeLikes) Toggle(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := likeKey{userID: userID, postID: postID}
	if _, ok := f.likes[key]; ok {
		delete(f.likes, key)
		return false, nil
	}
	f.likes[key] = time.Now()
	return true, nil
}

func (f *fakeLikes) CountByPost(ctx context.Context, postID uuid.UUID) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.likeCount(postID), nil
}

// --- FollowRepository ---

type fakeFollows struct{ *fakeState }

func (f *fakeFollows) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := edgeKey{followerID: followerID, followingID: followingID}
	if _, ok := f.follows[key]; !ok {
		f.follows[key] = time.Now()
	}
	return nil
}

func (f *fakeFollows) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.follows, edgeKey{followerID: followerID, followingID: followingID})
	return nil
}

func (f *fakeFollows) Counts(ctx context.Context, userID uuid.UUID) (*models.FollowCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := &models.FollowCounts{}
	for key := range f.follows {
		if key.followingID == userID {
			counts.Followers++
		}
		if key.followerID == userID {
			counts.Following++
		}
	}
	return counts, nil
}

func (f *fakeFollows) ListFollowedPreview(ctx context.Context, userID uuid.UUID, limit int32) ([]models.FollowedUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.FollowedUser{}
	for key := range f.follows {
		if key.followerID != userID {
			continue
		}
		if u, ok := f.users[key.followingID]; ok {
			out = append(out, models.FollowedUser{Username: u.Username, ProfilePicURL: u.ProfilePicURL})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if int32(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}
