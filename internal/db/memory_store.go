package db

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"dancewave-backend-go/internal/models"
)

// memoryStore keeps every collection in process memory behind a single lock.
// Documents are stored by value so callers never alias stored state.
type memoryStore struct {
	mu         sync.RWMutex
	users      []models.User
	proposals  []models.ClassProposal
	classes    []models.PublishedClass
	selections []models.Selection
}

// NewMemoryStore returns an empty Store that lives in process memory.
func NewMemoryStore() *Store {
	m := &memoryStore{}
	return &Store{
		Users:      &memoryUserRepository{m},
		Proposals:  &memoryProposalRepository{m},
		Classes:    &memoryClassRepository{m},
		Selections: &memorySelectionRepository{m},
	}
}

func newMemoryID() string {
	return uuid.NewString()
}

func findIndex[T any](items []T, match func(*T) bool) int {
	for i := range items {
		if match(&items[i]) {
			return i
		}
	}
	return -1
}

func collect[T any](items []T, match func(*T) bool) []*T {
	out := make([]*T, 0)
	for i := range items {
		if match == nil || match(&items[i]) {
			item := items[i]
			out = append(out, &item)
		}
	}
	return out
}

type memoryUserRepository struct{ m *memoryStore }

func (r *memoryUserRepository) List(ctx context.Context) ([]*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return collect(r.m.users, nil), nil
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	i := findIndex(r.m.users, func(u *models.User) bool { return u.Email == email })
	if i < 0 {
		return nil, fmt.Errorf("user with email '%s': %w", email, ErrNotFound)
	}
	user := r.m.users[i]
	return &user, nil
}

func (r *memoryUserRepository) Create(ctx context.Context, user *models.User) (string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if findIndex(r.m.users, func(u *models.User) bool { return u.Email == user.Email }) >= 0 {
		return "", fmt.Errorf("user with email '%s': %w", user.Email, ErrDuplicate)
	}
	user.ID = newMemoryID()
	r.m.users = append(r.m.users, *user)
	return user.ID, nil
}

func (r *memoryUserRepository) SetRole(ctx context.Context, userID, role string) (models.UpdateResult, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	res := models.UpdateResult{Acknowledged: true}
	i := findIndex(r.m.users, func(u *models.User) bool { return u.ID == userID })
	if i < 0 {
		return res, nil
	}
	res.MatchedCount = 1
	if r.m.users[i].Role != role {
		r.m.users[i].Role = role
		res.ModifiedCount = 1
	}
	return res, nil
}

func (r *memoryUserRepository) Delete(ctx context.Context, userID string) (models.DeleteResult, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	res := models.DeleteResult{Acknowledged: true}
	i := findIndex(r.m.users, func(u *models.User) bool { return u.ID == userID })
	if i >= 0 {
		r.m.users = slices.Delete(r.m.users, i, i+1)
		res.DeletedCount = 1
	}
	return res, nil
}

type memoryProposalRepository struct{ m *memoryStore }

func (r *memoryProposalRepository) List(ctx context.Context) ([]*models.ClassProposal, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return collect(r.m.proposals, nil), nil
}

func (r *memoryProposalRepository) ListByInstructor(ctx context.Context, instructorEmail string) ([]*models.ClassProposal, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return collect(r.m.proposals, func(p *models.ClassProposal) bool { return p.InstructorEmail == instructorEmail }), nil
}

func (r *memoryProposalRepository) GetByID(ctx context.Context, proposalID string) (*models.ClassProposal, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	i := findIndex(r.m.proposals, func(p *models.ClassProposal) bool { return p.ID == proposalID })
	if i < 0 {
		return nil, fmt.Errorf("proposal '%s': %w", proposalID, ErrNotFound)
	}
	proposal := r.m.proposals[i]
	return &proposal, nil
}

func (r *memoryProposalRepository) Exists(ctx context.Context, name, instructorName string) (bool, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return r.indexOf(name, instructorName) >= 0, nil
}

func (r *memoryProposalRepository) indexOf(name, instructorName string) int {
	return findIndex(r.m.proposals, func(p *models.ClassProposal) bool {
		return p.Name == name && p.InstructorName == instructorName
	})
}

func (r *memoryProposalRepository) Create(ctx context.Context, proposal *models.ClassProposal) (string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.indexOf(proposal.Name, proposal.InstructorName) >= 0 {
		return "", fmt.Errorf("proposal '%s' by '%s': %w", proposal.Name, proposal.InstructorName, ErrDuplicate)
	}
	proposal.ID = newMemoryID()
	r.m.proposals = append(r.m.proposals, *proposal)
	return proposal.ID, nil
}

func (r *memoryProposalRepository) SetStatus(ctx context.Context, proposalID, status string) (models.UpdateResult, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	res := models.UpdateResult{Acknowledged: true}
	i := findIndex(r.m.proposals, func(p *models.ClassProposal) bool { return p.ID == proposalID })
	if i < 0 {
		return res, nil
	}
	res.MatchedCount = 1
	if r.m.proposals[i].Status != status {
		r.m.proposals[i].Status = status
		res.ModifiedCount = 1
	}
	return res, nil
}

type memoryClassRepository struct{ m *memoryStore }

func (r *memoryClassRepository) List(ctx context.Context) ([]*models.PublishedClass, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return cloneClasses(collect(r.m.classes, nil)), nil
}

func (r *memoryClassRepository) ListByInstructor(ctx context.Context, instructorEmail string) ([]*models.PublishedClass, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return cloneClasses(collect(r.m.classes, func(c *models.PublishedClass) bool { return c.InstructorEmail == instructorEmail })), nil
}

func cloneClasses(classes []*models.PublishedClass) []*models.PublishedClass {
	for _, c := range classes {
		c.Students = slices.Clone(c.Students)
	}
	return classes
}

func (r *memoryClassRepository) Upsert(ctx context.Context, class *models.PublishedClass) (models.UpdateResult, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored := *class
	stored.Students = slices.Clone(class.Students)
	i := findIndex(r.m.classes, func(c *models.PublishedClass) bool { return c.Name == class.Name })
	if i >= 0 {
		stored.ID = r.m.classes[i].ID
		r.m.classes[i] = stored
		return models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
	}
	stored.ID = newMemoryID()
	r.m.classes = append(r.m.classes, stored)
	return models.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: stored.ID}, nil
}

func (r *memoryClassRepository) Enroll(ctx context.Context, className, studentEmail string) (models.UpdateResult, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	res := models.UpdateResult{Acknowledged: true}
	i := findIndex(r.m.classes, func(c *models.PublishedClass) bool {
		return c.Name == className && !slices.Contains(c.Students, studentEmail)
	})
	if i < 0 {
		return res, nil
	}
	c := &r.m.classes[i]
	c.Students = append(slices.Clone(c.Students), studentEmail)
	c.EnrolledCount++
	c.AvailableSeats--
	res.MatchedCount, res.ModifiedCount = 1, 1
	return res, nil
}

type memorySelectionRepository struct{ m *memoryStore }

func (r *memorySelectionRepository) ListByEmail(ctx context.Context, email string) ([]*models.Selection, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return collect(r.m.selections, func(s *models.Selection) bool { return s.Email == email }), nil
}

func (r *memorySelectionRepository) ListPaidByEmail(ctx context.Context, email string) ([]*models.Selection, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := collect(r.m.selections, func(s *models.Selection) bool {
		return s.Email == email && s.Status == models.SelectionPaid
	})
	sort.SliceStable(out, func(i, j int) bool {
		return paidAt(out[i]).After(paidAt(out[j]))
	})
	return out, nil
}

func (r *memorySelectionRepository) GetByID(ctx context.Context, selectionID string) (*models.Selection, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	i := findIndex(r.m.selections, func(s *models.Selection) bool { return s.ID == selectionID })
	if i < 0 {
		return nil, fmt.Errorf("selection '%s': %w", selectionID, ErrNotFound)
	}
	sel := r.m.selections[i]
	return &sel, nil
}

func (r *memorySelectionRepository) Exists(ctx context.Context, email, name string) (bool, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return r.indexOf(email, name) >= 0, nil
}

func (r *memorySelectionRepository) indexOf(email, name string) int {
	return findIndex(r.m.selections, func(s *models.Selection) bool {
		return s.Email == email && s.Name == name
	})
}

func (r *memorySelectionRepository) Create(ctx context.Context, selection *models.Selection) (string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.indexOf(selection.Email, selection.Name) >= 0 {
		return "", fmt.Errorf("selection '%s' for '%s': %w", selection.Name, selection.Email, ErrDuplicate)
	}
	selection.ID = newMemoryID()
	r.m.selections = append(r.m.selections, *selection)
	return selection.ID, nil
}

func (r *memorySelectionRepository) Delete(ctx context.Context, selectionID string) (models.DeleteResult, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	res := models.DeleteResult{Acknowledged: true}
	i := findIndex(r.m.selections, func(s *models.Selection) bool { return s.ID == selectionID })
	if i >= 0 {
		r.m.selections = slices.Delete(r.m.selections, i, i+1)
		res.DeletedCount = 1
	}
	return res, nil
}

func (r *memorySelectionRepository) MarkPaid(ctx context.Context, filter models.PaidFilter, transactionID string, paidAt time.Time) (*models.Selection, models.UpdateResult, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	i := findIndex(r.m.selections, func(s *models.Selection) bool {
		return s.Name == filter.Name &&
			s.InstructorEmail == filter.InstructorEmail &&
			s.Status != models.SelectionPaid &&
			(filter.Email == "" || s.Email == filter.Email)
	})
	if i < 0 {
		return nil, models.UpdateResult{Acknowledged: true}, nil
	}
	s := &r.m.selections[i]
	s.Status = models.SelectionPaid
	s.TransactionID = transactionID
	s.PaidAt = &paidAt
	paid := *s
	return &paid, models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}
