// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain records to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain records should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between persistence models and domain records
// 4. Repositories use persistence models for database operations
package models
