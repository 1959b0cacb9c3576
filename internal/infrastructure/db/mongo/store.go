package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/charlieverse/platform/internal/core/domain"
)

const (
	collectionUsers    = "users"
	collectionProjects = "projects"
	collectionUpdates  = "project_updates"
	collectionContacts = "contact_messages"
)

// Store implements the persistence gateway on MongoDB collections.
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return s.db.Client().Ping(ctx, nil)
}

// EnsureIndexes creates the indexes the query paths rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.db.Collection(collectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = s.db.Collection(collectionProjects).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = s.db.Collection(collectionUpdates).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

// ── Users ─────────────────────────────────────────────────────────────────────

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	err := s.db.Collection(collectionUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	err := s.db.Collection(collectionUsers).FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *user
	doc.ID = primitive.NewObjectID().Hex()
	if doc.Role == "" {
		doc.Role = domain.RoleUser
	}
	doc.IsActive = true
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := s.db.Collection(collectionUsers).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}
	return &doc, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.PasswordHash != nil {
		set["password_hash"] = *patch.PasswordHash
	}
	if patch.FirstName != nil {
		set["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		set["last_name"] = *patch.LastName
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.Company != nil {
		set["company"] = *patch.Company
	}
	if patch.Bio != nil {
		set["bio"] = *patch.Bio
	}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	if patch.FirebaseUID != nil {
		set["firebase_uid"] = *patch.FirebaseUID
	}
	if patch.IsActive != nil {
		set["is_active"] = *patch.IsActive
	}

	var u domain.User
	err := s.db.Collection(collectionUsers).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := s.db.Collection(collectionUsers).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Projects ──────────────────────────────────────────────────────────────────

func (s *Store) CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *p
	doc.ID = primitive.NewObjectID().Hex()
	if doc.Status == "" {
		doc.Status = domain.StatusPending
	}
	if doc.Priority == "" {
		doc.Priority = domain.PriorityMedium
	}
	if doc.ContactMethod == "" {
		doc.ContactMethod = "email"
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := s.db.Collection(collectionProjects).InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Project
	err := s.db.Collection(collectionProjects).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListProjectsByOwner(ctx context.Context, userID string) ([]*domain.Project, error) {
	return s.listProjects(ctx, bson.M{"user_id": userID})
}

func (s *Store) ListAllProjects(ctx context.Context) ([]*domain.Project, error) {
	return s.listProjects(ctx, bson.M{})
}

func (s *Store) listProjects(ctx context.Context, filter bson.M) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := s.db.Collection(collectionProjects).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) UpdateProjectStatus(ctx context.Context, id string, status domain.ProjectStatus, patch domain.ProjectPatch) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	set := bson.M{"status": status, "updated_at": now}
	if status == domain.StatusCompleted {
		set["completed_at"] = now
	}
	if patch.EstimatedCost != nil {
		set["estimated_cost"] = *patch.EstimatedCost
	}
	if patch.ActualCost != nil {
		set["actual_cost"] = *patch.ActualCost
	}
	if patch.StartDate != nil {
		set["start_date"] = *patch.StartDate
	}
	if patch.EndDate != nil {
		set["end_date"] = *patch.EndDate
	}

	var p domain.Project
	err := s.db.Collection(collectionProjects).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) AddProjectUpdate(ctx context.Context, u *domain.ProjectUpdate) (*domain.ProjectUpdate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *u
	doc.ID = primitive.NewObjectID().Hex()
	doc.CreatedAt = time.Now().UTC()

	if _, err := s.db.Collection(collectionUpdates).InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) ListProjectUpdates(ctx context.Context, projectID string) ([]*domain.ProjectUpdate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := s.db.Collection(collectionUpdates).Find(ctx, bson.M{"project_id": projectID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.ProjectUpdate
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Contact messages ──────────────────────────────────────────────────────────

func (s *Store) CreateContactMessage(ctx context.Context, m *domain.ContactMessage) (*domain.ContactMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *m
	doc.ID = primitive.NewObjectID().Hex()
	if doc.Status == "" {
		doc.Status = domain.ContactNew
	}
	doc.CreatedAt = time.Now().UTC()

	if _, err := s.db.Collection(collectionContacts).InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) ListContactMessages(ctx context.Context) ([]*domain.ContactMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := s.db.Collection(collectionContacts).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.ContactMessage
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) UpdateContactStatus(ctx context.Context, id string, status domain.ContactStatus, adminNotes string) (*domain.ContactMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"status": status}
	if adminNotes != "" {
		set["admin_notes"] = adminNotes
	}
	if status == domain.ContactReplied {
		set["replied_at"] = time.Now().UTC()
	}

	var m domain.ContactMessage
	err := s.db.Collection(collectionContacts).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrContactNotFound
		}
		return nil, err
	}
	return &m, nil
}
