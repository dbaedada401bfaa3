//go:build governance

package core_test

import (
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/shopfloor/kpidash"

// TestGovernance_CoreCohesion verifies that exported names in pkg/core are
// genuinely shared. Single-use names belong with their sole consumer.
func TestGovernance_CoreCohesion(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes |
			packages.NeedTypesInfo | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	coreDefs := make(map[types.Object]string)
	var corePkg *packages.Package
	for _, p := range pkgs {
		if p.PkgPath == modulePath+"/pkg/core" {
			corePkg = p
			scope := p.Types.Scope()
			for _, name := range scope.Names() {
				if obj := scope.Lookup(name); obj.Exported() {
					coreDefs[obj] = name
				}
			}
			break
		}
	}
	if corePkg == nil {
		t.Fatal("Could not find pkg/core")
	}

	usageMap := make(map[string]map[string]bool)
	for _, name := range coreDefs {
		usageMap[name] = make(map[string]bool)
	}

	base := modulePath + "/"
	for _, p := range pkgs {
		if p.PkgPath == corePkg.PkgPath || p.TypesInfo == nil {
			continue
		}
		for _, obj := range p.TypesInfo.Uses {
			if name, ok := coreDefs[obj]; ok {
				usageMap[name][strings.TrimPrefix(p.PkgPath, base)] = true
			}
		}
	}

	for name, importers := range usageMap {
		if isCohesionAllowlisted(name) {
			continue
		}
		switch len(importers) {
		case 0:
			t.Logf("WARNING: Unused core name: %s (consider deleting)", name)
		case 1:
			for user := range importers {
				t.Errorf("COHESION VIOLATION: 'core.%s' is used ONLY by '%s'.\n"+
					"   Fix: Move it from pkg/core to %s.", name, user, user)
			}
		}
	}
}

// isCohesionAllowlisted returns true for names allowed to have a single user.
func isCohesionAllowlisted(name string) bool {
	allowlist := map[string]bool{
		// Placeholder styles are data the dialect package owns but adapters may inspect.
		"PlaceholderStyle":    true,
		"PlaceholderQuestion": true,
		"PlaceholderDollar":   true,
	}
	return allowlist[name]
}

// TestGovernance_AliasesOnlyInAdapter ensures core types are re-exported as
// aliases only by pkg/adapter, whose Config/Row/Result names are its API.
func TestGovernance_AliasesOnlyInAdapter(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 || pkg.PkgPath == modulePath+"/pkg/adapter" {
			continue
		}
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !tn.Exported() || !tn.IsAlias() {
				continue
			}
			named, ok := types.Unalias(tn.Type()).(*types.Named)
			if !ok || named.Obj().Pkg() == nil {
				continue
			}
			if named.Obj().Pkg().Path() == modulePath+"/pkg/core" {
				t.Errorf("PURITY VIOLATION: %s re-exports core.%s as %s; use core.%s directly",
					strings.TrimPrefix(pkg.PkgPath, modulePath+"/"), named.Obj().Name(), name, named.Obj().Name())
			}
		}
	}
}
