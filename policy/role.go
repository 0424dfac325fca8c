// Package policy decides which role a new account gets and which document
// actions a profile may perform. The same Gate backs server-side enforcement
// and the edit/delete affordances returned to the UI.
package policy

import (
	"fmt"
	"strings"

	"github.com/kevinaaaquil/dejapp/models"
)

// RoleRuleKind selects how the admin role is granted at signup.
type RoleRuleKind string

const (
	RoleRuleSuffix    RoleRuleKind = "suffix"
	RoleRuleAllowList RoleRuleKind = "allowlist"
	RoleRuleNone      RoleRuleKind = "none"
)

// RoleRule is fixed by configuration; users cannot influence it beyond their email.
type RoleRule struct {
	Kind      RoleRuleKind
	Suffix    string
	AllowList []string
}

func ParseRoleRuleKind(s string) (RoleRuleKind, error) {
	switch k := RoleRuleKind(strings.ToLower(strings.TrimSpace(s))); k {
	case RoleRuleSuffix, RoleRuleAllowList, RoleRuleNone:
		return k, nil
	case "":
		return RoleRuleSuffix, nil
	}
	return "", fmt.Errorf("unknown admin rule %q (use suffix, allowlist or none)", s)
}

// RoleFor returns the role assigned to a new account with this email.
func (r RoleRule) RoleFor(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	switch r.Kind {
	case RoleRuleSuffix:
		if r.Suffix != "" && strings.HasSuffix(email, strings.ToLower(r.Suffix)) {
			return models.RoleAdmin
		}
	case RoleRuleAllowList:
		for _, a := range r.AllowList {
			if strings.ToLower(strings.TrimSpace(a)) == email {
				return models.RoleAdmin
			}
		}
	}
	return models.RoleMember
}
