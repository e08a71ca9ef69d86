// Package todo holds the item operations behind the HTTP routes: list,
// create and mark-completed.
package todo

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"todo-list/internal/store"
	"todo-list/pkg/mq"
)

// ItemsPath is where every mutating operation redirects.
const ItemsPath = "/items"

var ErrParameterMissing = errors.New("param is missing or the value is empty: item")

// Page is what the list view renders.
type Page struct {
	Items []store.Item
}

func (p Page) Empty() bool { return len(p.Items) == 0 }

type Redirect struct {
	Location string
}

// ItemParams is the allow-listed subset of a submitted item form.
type ItemParams struct {
	Text string
}

// PermitItemParams accepts only item[text] from the item group. Any other
// field is dropped; a form with no item group at all is rejected. A group
// without item[text] yields empty text.
func PermitItemParams(form url.Values) (ItemParams, error) {
	present := false
	for k := range form {
		if strings.HasPrefix(k, "item[") && strings.HasSuffix(k, "]") {
			present = true
			break
		}
	}
	if !present {
		return ItemParams{}, ErrParameterMissing
	}
	return ItemParams{Text: form.Get("item[text]")}, nil
}

type Service struct {
	store  store.ItemStore
	events mq.Publisher
	logger *log.Logger
}

type Option func(*Service)

func WithPublisher(p mq.Publisher) Option {
	return func(s *Service) { s.events = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(st store.ItemStore, opts ...Option) *Service {
	s := &Service{store: st, events: mq.Noop{}, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context) (Page, error) {
	items, err := s.store.All(ctx)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items}, nil
}

// Create stores the permitted text and redirects to the list. The created
// item is not inspected; store failures still propagate.
func (s *Service) Create(ctx context.Context, form url.Values) (Redirect, error) {
	params, err := PermitItemParams(form)
	if err != nil {
		return Redirect{}, err
	}
	it, err := s.store.Create(ctx, params.Text)
	if err != nil {
		return Redirect{}, err
	}
	s.publish(mq.TopicItemCreated, it)
	return Redirect{Location: ItemsPath}, nil
}

// MarkCompleted flips the item's completed flag. Unknown or malformed ids
// are NotFound.
func (s *Service) MarkCompleted(ctx context.Context, rawID string) (Redirect, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return Redirect{}, store.NotFound("find")
	}
	if _, err := s.store.Find(ctx, id); err != nil {
		return Redirect{}, err
	}
	it, err := s.store.UpdateCompleted(ctx, id)
	if err != nil {
		return Redirect{}, err
	}
	s.publish(mq.TopicItemCompleted, it)
	return Redirect{Location: ItemsPath}, nil
}

func (s *Service) publish(topic string, it store.Item) {
	if err := mq.PublishJSON(s.events, topic, it); err != nil {
		s.logger.Warn("publish failed", "topic", topic, "id", it.ID, "err", err)
	}
}
