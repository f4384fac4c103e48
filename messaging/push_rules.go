// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/bureau-foundation/mxfacade/lib/dispatch"
	"github.com/bureau-foundation/mxfacade/lib/schema"
)

// PushRule is one rule of the account's global ruleset.
type PushRule struct {
	Kind       schema.PushRuleKind `json:"-"`
	RuleID     string              `json:"rule_id"`
	Default    bool                `json:"default"`
	Enabled    bool                `json:"enabled"`
	Pattern    string              `json:"pattern,omitempty"`
	Conditions json.RawMessage     `json:"conditions,omitempty"`
	Actions    json.RawMessage     `json:"actions,omitempty"`
}

// flattenRuleset orders rules by kind priority, then by the server's
// order within each kind. A kind this package does not know fails the
// whole ruleset.
func flattenRuleset(global map[string][]PushRule) ([]PushRule, error) {
	for wire := range global {
		if _, err := schema.ParsePushRuleKind(wire); err != nil {
			return nil, err
		}
	}
	var rules []PushRule
	for _, entry := range schema.PushRuleKinds().Table().Entries() {
		for _, rule := range global[entry.Wire] {
			rule.Kind = entry.Variant
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

// PushRules fetches the global push ruleset in evaluation order.
func (c *Client) PushRules(done func(dispatch.Result[[]PushRule])) *dispatch.Handle {
	transform := dispatch.Then(dispatch.Field[map[string][]PushRule]("global"), flattenRuleset)
	return call(c, get("push_rules.list", clientPath("pushrules")+"/", nil), transform, done)
}

func pushRulePath(kind schema.PushRuleKind, ruleID string, suffix ...string) (string, error) {
	wire, err := schema.PushRuleKinds().Encode(kind)
	if err != nil {
		return "", err
	}
	if ruleID == "" {
		return "", fmt.Errorf("push rule ID is required")
	}
	return clientPath(append([]string{"pushrules", "global", wire, ruleID}, suffix...)...), nil
}

// SetPushRuleEnabled enables or disables a rule.
func (c *Client) SetPushRuleEnabled(kind schema.PushRuleKind, ruleID string, enabled bool, done func(dispatch.Result[Empty])) *dispatch.Handle {
	path, err := pushRulePath(kind, ruleID, "enabled")
	if err != nil {
		return dispatch.Reject(done, fmt.Errorf("messaging: push rule: %w", err))
	}
	return call(c, put("push_rules.set_enabled", path, map[string]bool{"enabled": enabled}), dispatch.Discard(), done)
}

// DeletePushRule deletes a user-defined rule. Server-default rules
// cannot be deleted.
func (c *Client) DeletePushRule(kind schema.PushRuleKind, ruleID string, done func(dispatch.Result[Empty])) *dispatch.Handle {
	path, err := pushRulePath(kind, ruleID)
	if err != nil {
		return dispatch.Reject(done, fmt.Errorf("messaging: push rule: %w", err))
	}
	return call(c, del("push_rules.delete", path, nil), dispatch.Discard(), done)
}
