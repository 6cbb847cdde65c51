// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cleanup

import (
	"sort"
	"time"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/entity"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
)

// PolicySpecificity ranks the matching scope of a policy: both filters set
// beats a single filter, a single filter beats the full wildcard.
func PolicySpecificity(policy entity.RetentionPolicyEntity) int {
	specificity := 0
	if policy.ActivityType != "" {
		specificity++
	}
	if policy.Module != "" {
		specificity++
	}
	return specificity
}

// HasHigherPrecedence reports whether policy a wins over policy b on records
// matched by both. The order is total: priority desc, then specificity desc,
// then createdAt desc, then id asc as the final tie break.
func HasHigherPrecedence(a, b entity.RetentionPolicyEntity) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if sa, sb := PolicySpecificity(a), PolicySpecificity(b); sa != sb {
		return sa > sb
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.Id < b.Id
}

// SortPoliciesByPrecedence orders policies so that the winner for any given
// record always appears before every other policy matching that record.
func SortPoliciesByPrecedence(policies []entity.RetentionPolicyEntity) {
	sort.SliceStable(policies, func(i, j int) bool {
		return HasHigherPrecedence(policies[i], policies[j])
	})
}

// MatchesScope reports whether a policy applies to a record of the given
// activity type and module. Empty policy filters match anything.
func MatchesScope(policy entity.RetentionPolicyEntity, activityType string, module string) bool {
	if policy.ActivityType != "" && policy.ActivityType != activityType {
		return false
	}
	if policy.Module != "" && policy.Module != module {
		return false
	}
	return true
}

// ResolvePolicy returns the single policy governing a record, or nil when no
// active policy matches it.
func ResolvePolicy(policies []entity.RetentionPolicyEntity, activityType string, module string) *entity.RetentionPolicyEntity {
	var winner *entity.RetentionPolicyEntity
	for i := range policies {
		if !MatchesScope(policies[i], activityType, module) {
			continue
		}
		if winner == nil || HasHigherPrecedence(policies[i], *winner) {
			winner = &policies[i]
		}
	}
	return winner
}

// BuildPolicyFilter translates a policy into a record filter at the given
// moment. Records claimed by higher precedence policies are excluded so that
// a broad low priority policy never deletes data a narrower policy retains
// for longer. Ownership is decided by scope alone: a record inside a higher
// precedence policy's scope is left to that policy even while its retention
// threshold has not elapsed yet.
func BuildPolicyFilter(policy entity.RetentionPolicyEntity, allPolicies []entity.RetentionPolicyEntity, now time.Time) view.RecordFilter {
	cutoff := now.AddDate(0, 0, -policy.RetentionDays)
	filter := view.RecordFilter{
		DateTo:       &cutoff,
		ActivityType: policy.ActivityType,
		Module:       policy.Module,
	}
	for _, other := range allPolicies {
		if other.Id == policy.Id || !other.IsActive {
			continue
		}
		if !HasHigherPrecedence(other, policy) {
			continue
		}
		if !scopesOverlap(policy, other) {
			continue
		}
		filter.ExcludeScopes = append(filter.ExcludeScopes, view.RecordScope{
			ActivityType: other.ActivityType,
			Module:       other.Module,
		})
	}
	return filter
}

func scopesOverlap(a, b entity.RetentionPolicyEntity) bool {
	if a.ActivityType != "" && b.ActivityType != "" && a.ActivityType != b.ActivityType {
		return false
	}
	if a.Module != "" && b.Module != "" && a.Module != b.Module {
		return false
	}
	return true
}
