package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atelierlibre/paroisse-api/internal/domain/common"
	"github.com/atelierlibre/paroisse-api/internal/domain/event"
	"github.com/atelierlibre/paroisse-api/internal/domain/newsletter"
	"github.com/atelierlibre/paroisse-api/internal/domain/registration"
	"github.com/atelierlibre/paroisse-api/internal/domain/subscriber"
	"github.com/atelierlibre/paroisse-api/internal/domain/user"
	"github.com/atelierlibre/paroisse-api/internal/mailer"
)

// In-memory repository fakes. The event fake guards the seat counter with a
// mutex so the concurrency test exercises the same claim semantics as the
// conditional UPDATE in the real repository.

type fakeEventRepo struct {
	mu        sync.Mutex
	events    []*event.Event
	createErr error
}

func newFakeEventRepo(events ...*event.Event) *fakeEventRepo {
	return &fakeEventRepo{events: events}
}

func (r *fakeEventRepo) Create(ev *event.Event) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Reads return copies so a racing ClaimSeat never mutates an event a caller
// is still inspecting.
func cloneEvent(ev *event.Event) *event.Event {
	c := *ev
	return &c
}

func (r *fakeEventRepo) GetByID(id string) (*event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.ID.String() == id {
			return cloneEvent(ev), nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeEventRepo) GetBySlug(slug string) (*event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.Slug == slug {
			return cloneEvent(ev), nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeEventRepo) GetAll(status string, tag string) ([]*event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*event.Event
	for _, ev := range r.events {
		if status != "" && ev.Status.String() != status {
			continue
		}
		if tag != "" && !containsTag(ev.Tags, tag) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Update never touches the registered count, matching the column list the
// real repository writes.
func (r *fakeEventRepo) Update(ev *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.events {
		if existing.ID == ev.ID {
			next := cloneEvent(ev)
			next.RegisteredCount = existing.RegisteredCount
			r.events[i] = next
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *fakeEventRepo) UpdateStatus(id string, status event.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.ID.String() == id {
			ev.Status = status
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *fakeEventRepo) SlugExists(slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEventRepo) ClaimSeat(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.ID == id {
			if ev.RegisteredCount >= ev.Capacity {
				return common.ErrCapacityExceeded
			}
			ev.RegisteredCount++
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *fakeEventRepo) ReleaseSeat(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.ID == id {
			if ev.RegisteredCount > 0 {
				ev.RegisteredCount--
			}
			return nil
		}
	}
	return common.ErrNotFound
}

type fakeRegistrationRepo struct {
	mu        sync.Mutex
	regs      []*registration.Registration
	createErr error
}

func newFakeRegistrationRepo(regs ...*registration.Registration) *fakeRegistrationRepo {
	return &fakeRegistrationRepo{regs: regs}
}

func (r *fakeRegistrationRepo) Create(reg *registration.Registration) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regs = append(r.regs, reg)
	return nil
}

func (r *fakeRegistrationRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, reg := range r.regs {
		if reg.ID == id {
			r.regs = append(r.regs[:i], r.regs[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *fakeRegistrationRepo) FindByEventAndUser(eventID, userID uuid.UUID) (*registration.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.regs {
		if reg.EventID == eventID && reg.UserID != nil && *reg.UserID == userID {
			return reg, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeRegistrationRepo) FindByEventAndEmail(eventID uuid.UUID, email string) (*registration.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.regs {
		if reg.EventID == eventID && strings.EqualFold(reg.Email, email) {
			return reg, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeRegistrationRepo) GetByEvent(eventID uuid.UUID) ([]*registration.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*registration.Registration
	for _, reg := range r.regs {
		if reg.EventID == eventID {
			out = append(out, reg)
		}
	}
	return out, nil
}

type fakeSubscriberRepo struct {
	mu        sync.Mutex
	subs      []*subscriber.Subscriber
	createErr error
	getAllErr error
}

func newFakeSubscriberRepo(subs ...*subscriber.Subscriber) *fakeSubscriberRepo {
	return &fakeSubscriberRepo{subs: subs}
}

func (r *fakeSubscriberRepo) Create(sub *subscriber.Subscriber) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, sub)
	return nil
}

func (r *fakeSubscriberRepo) GetByEmail(email string) (*subscriber.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subs {
		if strings.EqualFold(sub.Email, email) {
			return sub, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeSubscriberRepo) GetAllActive() ([]*subscriber.Subscriber, error) {
	if r.getAllErr != nil {
		return nil, r.getAllErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*subscriber.Subscriber
	for _, sub := range r.subs {
		if sub.Status == subscriber.StatusActive {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (r *fakeSubscriberRepo) Update(sub *subscriber.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.subs {
		if existing.ID == sub.ID {
			r.subs[i] = sub
			return nil
		}
	}
	return common.ErrNotFound
}

type fakeNewsletterRepo struct {
	mu          sync.Mutex
	newsletters []*newsletter.Newsletter
	recipients  []*newsletter.Recipient
}

func newFakeNewsletterRepo(newsletters ...*newsletter.Newsletter) *fakeNewsletterRepo {
	return &fakeNewsletterRepo{newsletters: newsletters}
}

func (r *fakeNewsletterRepo) Create(nl *newsletter.Newsletter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.newsletters = append(r.newsletters, nl)
	return nil
}

func (r *fakeNewsletterRepo) GetByID(id string) (*newsletter.Newsletter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, nl := range r.newsletters {
		if nl.ID.String() == id {
			return nl, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeNewsletterRepo) GetAll() ([]*newsletter.Newsletter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*newsletter.Newsletter(nil), r.newsletters...), nil
}

func (r *fakeNewsletterRepo) Update(nl *newsletter.Newsletter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.newsletters {
		if existing.ID == nl.ID {
			r.newsletters[i] = nl
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *fakeNewsletterRepo) FindDue(now time.Time) ([]*newsletter.Newsletter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*newsletter.Newsletter
	for _, nl := range r.newsletters {
		if nl.IsDue(now) {
			out = append(out, nl)
		}
	}
	return out, nil
}

func (r *fakeNewsletterRepo) CreateRecipient(rec *newsletter.Recipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipients = append(r.recipients, rec)
	return nil
}

func (r *fakeNewsletterRepo) GetRecipients(newsletterID uuid.UUID) ([]*newsletter.Recipient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*newsletter.Recipient
	for _, rec := range r.recipients {
		if rec.NewsletterID == newsletterID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users []*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	return &fakeUserRepo{users: users}
}

func (r *fakeUserRepo) Create(u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return common.ErrConflict
		}
	}
	r.users = append(r.users, u)
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

// fakeSender records every attempt and fails for configured addresses.
type fakeSender struct {
	mu       sync.Mutex
	attempts []mailer.Message
	failFor  map[string]error
}

func newFakeSender() *fakeSender {
	return &fakeSender{failFor: map[string]error{}}
}

func (s *fakeSender) Send(ctx context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, msg)
	if err, ok := s.failFor[msg.To]; ok {
		return err
	}
	return nil
}

func (s *fakeSender) attemptedAddresses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.attempts))
	for _, msg := range s.attempts {
		out = append(out, msg.To)
	}
	return out
}
