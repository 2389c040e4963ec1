package memory

import (
	"sync"
	"time"

	"pet-reels/internal/domain/animals"
	"pet-reels/internal/domain/users"

	"github.com/google/uuid"
)

// Store es el store durable en memoria (dev + tests). Todos los repos
// comparten el mismo lock, así las bajas de animales y el barrido de
// organizaciones ven el mismo estado.
type Store struct {
	mu sync.RWMutex

	animals map[int64]animals.Animal
	orgs    map[string]animals.Organization

	users      map[uuid.UUID]users.User
	nextUserID int64
	seen       map[int64]map[int64]time.Time

	state map[string]time.Time
}

func NewStore() *Store {
	return &Store{
		animals: make(map[int64]animals.Animal),
		orgs:    make(map[string]animals.Organization),
		users:   make(map[uuid.UUID]users.User),
		seen:    make(map[int64]map[int64]time.Time),
		state:   make(map[string]time.Time),
	}
}

func (s *Store) Animals() *AnimalsRepo             { return &AnimalsRepo{s: s} }
func (s *Store) Organizations() *OrganizationsRepo { return &OrganizationsRepo{s: s} }
func (s *Store) Users() *UsersRepo                 { return &UsersRepo{s: s} }
func (s *Store) Seen() *SeenRepo                   { return &SeenRepo{s: s} }
func (s *Store) SyncState() *SyncStateRepo         { return &SyncStateRepo{s: s} }
