package repository

import (
	"context"
	"fmt"

	"gramsync-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository interface {
	Insert(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListIDsByRole(ctx context.Context, role models.Role) ([]primitive.ObjectID, error)
	ListIDsByRoleAndPanchayat(ctx context.Context, role models.Role, panchayatID primitive.ObjectID) ([]primitive.ObjectID, error)
}

type userRepository struct {
	users *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{users: db.Collection(colUsers)}
}

func (r *userRepository) Insert(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if _, err := r.users.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("failed to insert user: %w", mapMongoErr(err))
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &u, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := r.users.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) ListIDsByRole(ctx context.Context, role models.Role) ([]primitive.ObjectID, error) {
	return r.listIDs(ctx, bson.M{"role": role})
}

func (r *userRepository) ListIDsByRoleAndPanchayat(ctx context.Context, role models.Role, panchayatID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return r.listIDs(ctx, bson.M{"role": role, "panchayatId": panchayatID})
}

func (r *userRepository) listIDs(ctx context.Context, filter bson.M) ([]primitive.ObjectID, error) {
	cursor, err := r.users.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}
