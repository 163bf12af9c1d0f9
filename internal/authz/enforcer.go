// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

// Package authz decides which roles may mutate the catalog. It is a
// Casbin RBAC enforcer with an embedded model; the policy set is built
// at startup from the configured content write policy, so "who can
// write" is an operator decision rather than a code change.
package authz

import (
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/tomtom215/videotheca/internal/config"
	"github.com/tomtom215/videotheca/internal/models"
)

//go:embed model.conf
var embeddedModel string

// Objects and actions used by the policy set.
const (
	ObjectContent = "content"

	ActionRead  = "read"
	ActionWrite = "write"
)

// Enforcer answers capability questions about roles.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// New builds the enforcer for the given content write policy
// (config.WritePolicyAny or config.WritePolicyAdmin).
//
// Both roles may always read. Admin inherits every user capability via
// a grouping rule, so widening the user role never strands admins.
func New(writePolicy string) (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("load casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}

	if err := loadPolicies(enforcer, writePolicy); err != nil {
		return nil, err
	}

	return &Enforcer{enforcer: enforcer}, nil
}

func loadPolicies(enforcer *casbin.SyncedEnforcer, writePolicy string) error {
	policies := [][3]string{
		{models.RoleUser, ObjectContent, ActionRead},
		{models.RoleAdmin, ObjectContent, ActionWrite},
	}
	if writePolicy == config.WritePolicyAny {
		policies = append(policies, [3]string{models.RoleUser, ObjectContent, ActionWrite})
	}

	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return fmt.Errorf("add policy %v: %w", p, err)
		}
	}
	if _, err := enforcer.AddGroupingPolicy(models.RoleAdmin, models.RoleUser); err != nil {
		return fmt.Errorf("add grouping policy: %w", err)
	}
	return nil
}

// Enforce checks if the subject can perform the action on the object.
func (e *Enforcer) Enforce(subject, object, action string) (bool, error) {
	allowed, err := e.enforcer.Enforce(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	return allowed, nil
}

// CanWriteContent reports whether the role may create, update or delete
// catalog entries.
func (e *Enforcer) CanWriteContent(role string) (bool, error) {
	return e.Enforce(role, ObjectContent, ActionWrite)
}
