package petitions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	uierrors "github.com/dalemusser/gatherhub/internal/app/features/errors"
	"github.com/dalemusser/gatherhub/internal/domain/models"
	"github.com/dalemusser/gatherhub/internal/domain/petition"
	"github.com/dalemusser/gatherhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeRepo keeps petitions and entities in memory.
type fakeRepo struct {
	mu        sync.Mutex
	petitions map[primitive.ObjectID]*models.Petition
	entities  map[primitive.ObjectID]*fakeEntity
	discarded []primitive.ObjectID
	commits   int
	getErr    error
	commitErr error
}

type fakeEntity struct {
	typ      petition.EntityType
	managers []primitive.ObjectID
	lists    map[string][]primitive.ObjectID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		petitions: map[primitive.ObjectID]*models.Petition{},
		entities:  map[primitive.ObjectID]*fakeEntity{},
	}
}

func (f *fakeRepo) addEntity(typ petition.EntityType, managers ...primitive.ObjectID) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.entities[id] = &fakeEntity{typ: typ, managers: managers, lists: map[string][]primitive.ObjectID{}}
	return id
}

func (f *fakeRepo) addPetition(typ string, sender, receiver, entity primitive.ObjectID) models.Petition {
	p := models.Petition{
		ID:         primitive.NewObjectID(),
		Type:       typ,
		State:      models.PetitionPending,
		SenderID:   sender,
		ReceiverID: receiver,
		EntityID:   entity,
	}
	f.petitions[p.ID] = &p
	return p
}

func (f *fakeRepo) list(id primitive.ObjectID, field string) []primitive.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entities[id].lists[field]
}

func (f *fakeRepo) GetPetition(_ context.Context, id primitive.ObjectID) (*models.Petition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.petitions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) LoadEntity(_ context.Context, typ petition.EntityType, id primitive.ObjectID, listField string) (*petition.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entities[id]
	if !ok || e.typ != typ {
		return nil, nil
	}
	list := append([]primitive.ObjectID(nil), e.lists[listField]...)
	return &petition.Entity{ID: id, Managers: e.managers, List: list}, nil
}

func (f *fakeRepo) Discard(_ context.Context, p models.Petition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur := f.petitions[p.ID]
	if cur == nil || cur.State != models.PetitionPending || cur.Version != p.Version {
		return ErrAlreadyAnswered
	}
	delete(f.petitions, p.ID)
	f.discarded = append(f.discarded, p.ID)
	return nil
}

func (f *fakeRepo) Commit(_ context.Context, p models.Petition, state string, plan *petition.Plan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commitErr != nil {
		return f.commitErr
	}
	cur := f.petitions[p.ID]
	if cur == nil || cur.State != models.PetitionPending || cur.Version != p.Version {
		return ErrAlreadyAnswered
	}
	cur.State = state
	cur.Version++
	f.commits++
	if plan != nil {
		for _, u := range []petition.Update{plan.Target, plan.Party} {
			e := f.entities[u.ID]
			if e == nil {
				return errors.New("entity vanished")
			}
			if !contains(e.lists[u.Field], u.Ref) {
				e.lists[u.Field] = append(e.lists[u.Field], u.Ref)
			}
		}
	}
	return nil
}

func contains(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func newTestHandler(repo Repository) *Handler {
	logger := zap.NewNop()
	return NewHandler(repo, uierrors.NewErrorLogger(logger), logger)
}

func patch(h *Handler, user testutil.TestUser, petitionID string, body any) *testutil.ResponseRecorder {
	req := testutil.NewJSONRequest(http.MethodPatch, "/petitions/"+petitionID, body)
	req = testutil.WithUser(req, user)
	req = testutil.WithChiURLParam(req, "petitionID", petitionID)
	rec := testutil.NewRecorder()
	h.HandleEdit(rec, req)
	return rec
}

func accept() map[string]string { return map[string]string{"state": models.PetitionAccepted} }

// U1 accepts an invite into T1: both lists gain each other's id.
func TestHandleEdit_InviteUserTeamAccepted(t *testing.T) {
	repo := newFakeRepo()
	u1 := repo.addEntity(petition.User)
	t1 := repo.addEntity(petition.Team, primitive.NewObjectID())
	p := repo.addPetition("invite-user-team", primitive.NewObjectID(), u1, t1)

	rec := patch(newTestHandler(repo), testutil.UserWithID(u1), p.ID.Hex(), accept())

	rec.AssertStatus(t, http.StatusOK)
	if got := rec.DecodeJSON(t)["general"]; got != "Success" {
		t.Errorf("general: got %v, want Success", got)
	}
	if !contains(repo.list(t1, "members"), u1) {
		t.Error("team members should include the user")
	}
	if !contains(repo.list(u1, "teams"), t1) {
		t.Error("user teams should include the team")
	}
	if repo.petitions[p.ID].State != models.PetitionAccepted {
		t.Errorf("petition state: got %q", repo.petitions[p.ID].State)
	}
}

func TestHandleEdit_RejectedTouchesOnlyPetition(t *testing.T) {
	repo := newFakeRepo()
	manager := primitive.NewObjectID()
	sender := repo.addEntity(petition.User)
	event := repo.addEntity(petition.Event, manager)
	p := repo.addPetition("request-user-event", sender, manager, event)

	rec := patch(newTestHandler(repo), testutil.UserWithID(manager), p.ID.Hex(), map[string]string{"state": "rejected"})

	rec.AssertStatus(t, http.StatusOK)
	if len(repo.list(event, "participants")) != 0 || len(repo.list(sender, "events")) != 0 {
		t.Error("rejection must not change memberships")
	}
	if repo.petitions[p.ID].State != models.PetitionRejected {
		t.Errorf("petition state: got %q", repo.petitions[p.ID].State)
	}
}

func TestHandleEdit_InvalidState(t *testing.T) {
	repo := newFakeRepo()
	u1 := repo.addEntity(petition.User)
	t1 := repo.addEntity(petition.Team)
	p := repo.addPetition("invite-user-team", primitive.NewObjectID(), u1, t1)

	for _, body := range []any{map[string]string{"state": "maybe"}, map[string]string{}} {
		rec := patch(newTestHandler(repo), testutil.UserWithID(u1), p.ID.Hex(), body)
		rec.AssertStatus(t, http.StatusBadRequest)
		if got := rec.DecodeJSON(t)["state"]; got != "Invalid type of state" {
			t.Errorf("state: got %v", got)
		}
	}
	if repo.commits != 0 || repo.petitions[p.ID].State != models.PetitionPending {
		t.Error("invalid state must not mutate anything")
	}
}

func TestHandleEdit_MalformedBody(t *testing.T) {
	repo := newFakeRepo()
	u1 := repo.addEntity(petition.User)
	t1 := repo.addEntity(petition.Team)
	p := repo.addPetition("invite-user-team", primitive.NewObjectID(), u1, t1)

	req := httptest.NewRequest(http.MethodPatch, "/petitions/"+p.ID.Hex(), strings.NewReader(`{"state":`))
	req = testutil.WithUser(req, testutil.UserWithID(u1))
	req = testutil.WithChiURLParam(req, "petitionID", p.ID.Hex())
	rec := testutil.NewRecorder()
	newTestHandler(repo).HandleEdit(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	if got := rec.DecodeJSON(t)["general"]; got != "Invalid request body" {
		t.Errorf("general: got %v", got)
	}
	if repo.commits != 0 || len(repo.discarded) != 0 {
		t.Error("malformed body must not touch the petition")
	}
}

func TestHandleEdit_EmptyBodyReachesStateCheck(t *testing.T) {
	repo := newFakeRepo()
	u1 := repo.addEntity(petition.User)
	t1 := repo.addEntity(petition.Team)
	p := repo.addPetition("invite-user-team", primitive.NewObjectID(), u1, t1)

	req := testutil.NewAuthenticatedRequest(http.MethodPatch, "/petitions/"+p.ID.Hex(), testutil.UserWithID(u1))
	req = testutil.WithChiURLParam(req, "petitionID", p.ID.Hex())
	rec := testutil.NewRecorder()
	newTestHandler(repo).HandleEdit(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	if got := rec.DecodeJSON(t)["state"]; got != "Invalid type of state" {
		t.Errorf("state: got %v", got)
	}
}

func TestHandleEdit_Forbidden(t *testing.T) {
	repo := newFakeRepo()
	u1 := repo.addEntity(petition.User)
	t1 := repo.addEntity(petition.Team)
	p := repo.addPetition("invite-user-team", primitive.NewObjectID(), u1, t1)

	rec := patch(newTestHandler(repo), testutil.RegularUser(), p.ID.Hex(), accept())

	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertContains(t, "Forbidden action")
	if repo.commits != 0 {
		t.Error("forbidden caller must not commit")
	}
}

func TestHandleEdit_Blocked(t *testing.T) {
	rec := patch(newTestHandler(newFakeRepo()), testutil.BlockedUser(), primitive.NewObjectID().Hex(), accept())
	rec.AssertStatus(t, http.StatusLocked)
	rec.AssertContains(t, "You are blocked")
}

func TestHandleEdit_NotFound(t *testing.T) {
	h := newTestHandler(newFakeRepo())
	for _, id := range []string{"not-an-id", primitive.NewObjectID().Hex()} {
		rec := patch(h, testutil.RegularUser(), id, accept())
		rec.AssertStatus(t, http.StatusNotFound)
		rec.AssertContains(t, "Petition not found")
	}
}

func TestHandleEdit_AlreadyAnswered(t *testing.T) {
	repo := newFakeRepo()
	u1 := repo.addEntity(petition.User)
	t1 := repo.addEntity(petition.Team)
	p := repo.addPetition("invite-user-team", primitive.NewObjectID(), u1, t1)
	repo.petitions[p.ID].State = models.PetitionAccepted

	rec := patch(newTestHandler(repo), testutil.UserWithID(u1), p.ID.Hex(), accept())

	rec.AssertStatus(t, http.StatusLocked)
	rec.AssertContains(t, "Is already accepted")
}

func TestHandleEdit_EntityRemovedDiscards(t *testing.T) {
	repo := newFakeRepo()
	manager := primitive.NewObjectID()
	team := repo.addEntity(petition.Team, manager)
	p := repo.addPetition("invite-team-event", primitive.NewObjectID(), team, primitive.NewObjectID())

	rec := patch(newTestHandler(repo), testutil.UserWithID(manager), p.ID.Hex(), accept())

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "Event is already removed. This petition is being removed")
	if len(repo.discarded) != 1 || repo.discarded[0] != p.ID {
		t.Errorf("discarded: %v", repo.discarded)
	}
}

func TestHandleEdit_RelationshipHoldsDiscards(t *testing.T) {
	repo := newFakeRepo()
	manager := primitive.NewObjectID()
	team := repo.addEntity(petition.Team, manager)
	event := repo.addEntity(petition.Event)
	repo.entities[event].lists["teams"] = []primitive.ObjectID{team}
	p := repo.addPetition("invite-team-event", primitive.NewObjectID(), team, event)

	rec := patch(newTestHandler(repo), testutil.UserWithID(manager), p.ID.Hex(), accept())

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "is already a participant of the event")
	if len(repo.discarded) != 1 {
		t.Error("expected petition to be discarded")
	}
	if len(repo.list(event, "teams")) != 1 {
		t.Error("event teams must not change")
	}
}

func TestHandleEdit_LostRaceAnswers423(t *testing.T) {
	repo := newFakeRepo()
	u1 := repo.addEntity(petition.User)
	t1 := repo.addEntity(petition.Team)
	p := repo.addPetition("invite-user-team", primitive.NewObjectID(), u1, t1)
	h := newTestHandler(repo)

	// Concurrent answers: exactly one wins, the others see 423.
	const n = 8
	codes := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- patch(h, testutil.UserWithID(u1), p.ID.Hex(), accept()).Code
		}()
	}
	wg.Wait()
	close(codes)

	ok := 0
	for c := range codes {
		switch c {
		case http.StatusOK:
			ok++
		case http.StatusLocked:
		default:
			t.Errorf("unexpected status %d", c)
		}
	}
	if ok != 1 {
		t.Errorf("successful answers: got %d, want 1", ok)
	}
	if got := len(repo.list(t1, "members")); got != 1 {
		t.Errorf("team members: got %d entries, want 1", got)
	}
}

func TestHandleEdit_StoreErrorIs500(t *testing.T) {
	repo := newFakeRepo()
	repo.getErr = errors.New("server selection timeout")

	rec := patch(newTestHandler(repo), testutil.RegularUser(), primitive.NewObjectID().Hex(), accept())

	rec.AssertStatus(t, http.StatusInternalServerError)
	rec.AssertContains(t, "Internal server error")
}
