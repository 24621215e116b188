package main

import (
	"flag"
	"fmt"
	"strings"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// issue-token mints a token for a collaborator (POS terminal, online store,
// warehouse tool). Privileges come from -role, -privileges, or both.
func main() {
	name := flag.String("name", "", "display name of the collaborator")
	email := flag.String("email", "", "contact email")
	subject := flag.String("subject", "", "subject id (random uuid if empty)")
	role := flag.String("role", "", "role code: ADMIN, STOREFRONT, WAREHOUSE, AUDITOR")
	privs := flag.String("privileges", "", "comma separated extra privileges")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	logg := config.NewLogger(cfg.Log)

	if *name == "" {
		logg.Fatal("❌ -name is required")
	}
	privileges, err := collectPrivileges(*role, *privs)
	if err != nil {
		logg.Fatalf("❌ %v", err)
	}
	if *subject == "" {
		*subject = uuid.NewString()
	}

	token, err := jwt.GenerateToken(cfg.JWT, *subject, *name, *email, privileges)
	if err != nil {
		logg.Fatalf("❌ Failed to sign token: %v", err)
	}

	logg.WithFields(logrus.Fields{
		"subject":    *subject,
		"name":       *name,
		"privileges": privileges,
		"expires_in": cfg.JWT.TTL.String(),
	}).Info("✅ Token issued")
	fmt.Println(token)
}

func collectPrivileges(role, extra string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	add := func(code string) error {
		if !model.IsPrivilege(code) {
			return fmt.Errorf("unknown privilege %q", code)
		}
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
		return nil
	}

	if role != "" {
		codes, ok := model.RolePrivileges(strings.ToUpper(role))
		if !ok {
			return nil, fmt.Errorf("unknown role %q", role)
		}
		for _, code := range codes {
			if err := add(code); err != nil {
				return nil, err
			}
		}
	}
	for _, code := range strings.Split(extra, ",") {
		if code = strings.TrimSpace(code); code == "" {
			continue
		}
		if err := add(code); err != nil {
			return nil, err
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no privileges: pass -role or -privileges")
	}
	return out, nil
}
