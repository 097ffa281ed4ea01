package service

import (
	"astrohunt/internal/cache"
	"astrohunt/internal/model"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes for the repository, media and cache interfaces.

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) (string, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return "", errors.New("duplicate key error")
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID.Hex()] = &cp
	return user.ID.Hex(), nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) SetTeam(ctx context.Context, id string, teamID primitive.ObjectID, role model.Role) error {
	u, ok := r.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.TeamID = &teamID
	u.Role = role
	return nil
}

func (r *fakeUserRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeTeamRepo struct {
	teams      map[string]*model.Team
	failCreate bool
	failUpdate bool
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[string]*model.Team)}
}

func (r *fakeTeamRepo) Create(ctx context.Context, team *model.Team) (string, error) {
	if r.failCreate {
		return "", errors.New("store unavailable")
	}
	for _, t := range r.teams {
		if t.Code == team.Code {
			return "", errors.New("duplicate key error")
		}
	}
	team.ID = primitive.NewObjectID()
	team.CreatedAt = time.Now()
	team.LastProgressAt = team.CreatedAt
	cp := *team
	r.teams[team.ID.Hex()] = &cp
	return team.ID.Hex(), nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, id string) (*model.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTeamRepo) GetByCode(ctx context.Context, code string) (*model.Team, error) {
	for _, t := range r.teams {
		if t.Code == code {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTeamRepo) GetByLeadID(ctx context.Context, leadID primitive.ObjectID) (*model.Team, error) {
	for _, t := range r.teams {
		if t.LeadID == leadID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTeamRepo) GetAll(ctx context.Context) ([]*model.Team, error) {
	ids := make([]string, 0, len(r.teams))
	for id := range r.teams {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	teams := make([]*model.Team, 0, len(ids))
	for _, id := range ids {
		cp := *r.teams[id]
		teams = append(teams, &cp)
	}
	return teams, nil
}

func (r *fakeTeamRepo) Update(ctx context.Context, team *model.Team) error {
	if r.failUpdate {
		return errors.New("store unavailable")
	}
	if _, ok := r.teams[team.ID.Hex()]; !ok {
		return errors.New("team not found")
	}
	cp := *team
	r.teams[team.ID.Hex()] = &cp
	return nil
}

func (r *fakeTeamRepo) AddMember(ctx context.Context, teamID, userID primitive.ObjectID) error {
	t, ok := r.teams[teamID.Hex()]
	if !ok {
		return errors.New("team not found")
	}
	t.MemberIDs = append(t.MemberIDs, userID)
	return nil
}

func (r *fakeTeamRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	for _, t := range r.teams {
		if t.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTeamRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeLevelRepo struct {
	levels map[string]*model.Level
}

func newFakeLevelRepo() *fakeLevelRepo {
	return &fakeLevelRepo{levels: make(map[string]*model.Level)}
}

func (r *fakeLevelRepo) Create(ctx context.Context, level *model.Level) (string, error) {
	level.ID = primitive.NewObjectID()
	level.CreatedAt = time.Now()
	if level.QuestionIDs == nil {
		level.QuestionIDs = []primitive.ObjectID{}
	}
	cp := *level
	r.levels[level.ID.Hex()] = &cp
	return level.ID.Hex(), nil
}

func (r *fakeLevelRepo) GetByID(ctx context.Context, id string) (*model.Level, error) {
	l, ok := r.levels[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLevelRepo) GetByNumber(ctx context.Context, number int) (*model.Level, error) {
	for _, l := range r.levels {
		if l.Level == number {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLevelRepo) GetAll(ctx context.Context) ([]*model.Level, error) {
	levels := make([]*model.Level, 0, len(r.levels))
	for _, l := range r.levels {
		cp := *l
		levels = append(levels, &cp)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Level < levels[j].Level })
	return levels, nil
}

func (r *fakeLevelRepo) PushQuestion(ctx context.Context, levelID, questionID primitive.ObjectID) error {
	l, ok := r.levels[levelID.Hex()]
	if !ok {
		return errors.New("level not found")
	}
	l.QuestionIDs = append(l.QuestionIDs, questionID)
	return nil
}

func (r *fakeLevelRepo) PullQuestion(ctx context.Context, levelID, questionID primitive.ObjectID) error {
	l, ok := r.levels[levelID.Hex()]
	if !ok {
		return errors.New("level not found")
	}
	kept := l.QuestionIDs[:0]
	for _, id := range l.QuestionIDs {
		if id != questionID {
			kept = append(kept, id)
		}
	}
	l.QuestionIDs = kept
	return nil
}

func (r *fakeLevelRepo) Delete(ctx context.Context, id string) error {
	delete(r.levels, id)
	return nil
}

func (r *fakeLevelRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeQuestionRepo struct {
	questions  map[string]*model.Question
	failCreate bool
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: make(map[string]*model.Question)}
}

func (r *fakeQuestionRepo) Create(ctx context.Context, question *model.Question) (string, error) {
	if r.failCreate {
		return "", errors.New("store unavailable")
	}
	question.ID = primitive.NewObjectID()
	question.CreatedAt = time.Now()
	question.UpdatedAt = question.CreatedAt
	cp := *question
	r.questions[question.ID.Hex()] = &cp
	return question.ID.Hex(), nil
}

func (r *fakeQuestionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	q, ok := r.questions[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (r *fakeQuestionRepo) GetByLevelID(ctx context.Context, levelID primitive.ObjectID) ([]*model.Question, error) {
	var questions []*model.Question
	for _, q := range r.questions {
		if q.LevelID == levelID {
			cp := *q
			questions = append(questions, &cp)
		}
	}
	return questions, nil
}

func (r *fakeQuestionRepo) Update(ctx context.Context, question *model.Question) error {
	if _, ok := r.questions[question.ID.Hex()]; !ok {
		return errors.New("question not found")
	}
	question.UpdatedAt = time.Now()
	cp := *question
	r.questions[question.ID.Hex()] = &cp
	return nil
}

func (r *fakeQuestionRepo) Delete(ctx context.Context, id string) error {
	delete(r.questions, id)
	return nil
}

func (r *fakeQuestionRepo) DeleteByLevelID(ctx context.Context, levelID primitive.ObjectID) error {
	for id, q := range r.questions {
		if q.LevelID == levelID {
			delete(r.questions, id)
		}
	}
	return nil
}

type fakeMediaStore struct {
	objects    map[string]bool
	uploads    int
	deletes    []string
	failUpload bool
	failDelete bool
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{objects: make(map[string]bool)}
}

func (s *fakeMediaStore) Upload(ctx context.Context, r io.Reader, size int64, contentType, filename string) (string, string, error) {
	if s.failUpload {
		return "", "", errors.New("media host unavailable")
	}
	s.uploads++
	objectID := fmt.Sprintf("questions/obj-%d", s.uploads)
	s.objects[objectID] = true
	return "http://media.local/" + objectID, objectID, nil
}

func (s *fakeMediaStore) Delete(ctx context.Context, objectID string) error {
	s.deletes = append(s.deletes, objectID)
	if s.failDelete {
		return errors.New("media host unavailable")
	}
	delete(s.objects, objectID)
	return nil
}

type fakeLeaderboardCache struct {
	scores map[string]int
	fail   bool
}

func newFakeLeaderboardCache() *fakeLeaderboardCache {
	return &fakeLeaderboardCache{scores: make(map[string]int)}
}

func (c *fakeLeaderboardCache) UpdateScore(ctx context.Context, teamID string, score int) error {
	if c.fail {
		return errors.New("redis unavailable")
	}
	c.scores[teamID] = score
	return nil
}

func (c *fakeLeaderboardCache) GetTop(ctx context.Context, limit int) ([]cache.Entry, error) {
	entries := make([]cache.Entry, 0, len(c.scores))
	for id, score := range c.scores {
		entries = append(entries, cache.Entry{TeamID: id, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (c *fakeLeaderboardCache) Remove(ctx context.Context, teamID string) error {
	delete(c.scores, teamID)
	return nil
}
