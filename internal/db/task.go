package db

import (
	"context"
	"fmt"
	"time"

	"github.com/mattduff36/avsworklog-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskCollection defines the interface for workshop task operations.
// The embedded status_history travels with the task document, so a
// transition's flat columns and its appended event commit in one write.
type TaskCollection interface {
	InsertTask(ctx context.Context, task models.WorkshopTask) (primitive.ObjectID, error)
	FindTaskByID(ctx context.Context, id string) (*models.WorkshopTask, error)
	FindTasks(ctx context.Context, assetID *primitive.ObjectID, status *models.TaskStatus) ([]models.WorkshopTask, error)
	ReplaceTask(ctx context.Context, id string, task models.WorkshopTask) error
}

// MongoTaskCollection implements TaskCollection for MongoDB.
type MongoTaskCollection struct {
	Collection *mongo.Collection
}

// InsertTask inserts a workshop task.
func (c *MongoTaskCollection) InsertTask(ctx context.Context, task models.WorkshopTask) (primitive.ObjectID, error) {
	if c.Collection == nil {
		return primitive.NilObjectID, fmt.Errorf("mongo collection is nil")
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, task)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// FindTaskByID finds a task by its ID.
func (c *MongoTaskCollection) FindTaskByID(ctx context.Context, id string) (*models.WorkshopTask, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid task ID: %w", err)
	}

	var task models.WorkshopTask
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("task not found")
		}
		return nil, err
	}
	return &task, nil
}

// FindTasks lists tasks, optionally filtered by asset and status.
func (c *MongoTaskCollection) FindTasks(ctx context.Context, assetID *primitive.ObjectID, status *models.TaskStatus) ([]models.WorkshopTask, error) {
	filter := bson.M{}
	if assetID != nil {
		filter["asset_id"] = *assetID
	}
	if status != nil {
		filter["status"] = *status
	}

	cursor, err := c.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []models.WorkshopTask
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ReplaceTask writes a transitioned task back in full, committing the
// status, its transition columns and the extended history together.
func (c *MongoTaskCollection) ReplaceTask(ctx context.Context, id string, task models.WorkshopTask) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid task ID: %w", err)
	}

	task.ID = objectID
	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, task)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("task not found")
	}
	return nil
}

// CommentCollection defines the interface for workshop task discussion
// comments, independent of the status-history audit trail.
type CommentCollection interface {
	InsertComment(ctx context.Context, comment models.WorkshopComment) error
	FindCommentsByTaskID(ctx context.Context, taskID primitive.ObjectID) ([]models.WorkshopComment, error)
}

// MongoCommentCollection implements CommentCollection for MongoDB.
type MongoCommentCollection struct {
	Collection *mongo.Collection
}

// InsertComment inserts a discussion comment.
func (c *MongoCommentCollection) InsertComment(ctx context.Context, comment models.WorkshopComment) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	_, err := c.Collection.InsertOne(ctx, comment)
	return err
}

// FindCommentsByTaskID returns a task's comment thread, oldest first.
func (c *MongoCommentCollection) FindCommentsByTaskID(ctx context.Context, taskID primitive.ObjectID) ([]models.WorkshopComment, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{"task_id": taskID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.WorkshopComment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
