package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dancewave-backend-go/internal/config"
)

// Collection names, shared by every driver.
const (
	usersCollection     = "users"
	classesCollection   = "danceClasses"
	proposalsCollection = "pendingClasses"
	selectionCollection = "selectedClass"
)

// Store bundles the repositories of one driver together with its connection lifecycle.
type Store struct {
	Users      UserRepository
	Proposals  ProposalRepository
	Classes    ClassRepository
	Selections SelectionRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks that the backing store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backing connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects the driver selected by appConfig.StoreDriver.
func Open(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*Store, error) {
	switch appConfig.StoreDriver {
	case config.DriverMongo:
		return OpenMongo(ctx, appConfig.MongoConnectionURI(), appConfig.DatabaseName, logger)
	case config.DriverFirestore:
		return OpenFirestore(ctx, appConfig, logger)
	case config.DriverMemory:
		logger.Warn("Using the in-memory store; data is lost on restart.")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", appConfig.StoreDriver)
	}
}
