// Package catalog models organizational dependency graphs.
//
// # Overview
//
// A Project owns Applications and an Application owns Components. Components
// declare dependencies on other components anywhere in the loaded universe:
//
//	PROJECT_1.WEBSITE.BACKEND ──depends on──▶ PROJECT_1.WEBSITE.DATABASE
//
// The Catalog indexes every component by identifier and keeps the reverse
// edges (which components depend on a given identifier).
//
// # Construction and registration
//
// Building an entity and registering it are separate steps:
//
//	cat := catalog.New()
//	p, _ := catalog.NewProject("PROJECT_1", nil, cat.Scheme())
//	_ = cat.AddProject(p)
//	app, _ := p.AddApplication("WEBSITE", rec)
//	_ = cat.RegisterApplication(app)
//
// Registering an identifier twice fails with *DuplicateError.
//
// # Resolution
//
// Dependencies are stored as raw references and resolved on demand, so a
// component may depend on one registered later. Parents fails with
// *DependencyError when a reference never resolves; Children never fails.
// Resolve reports every unresolved reference at once.
package catalog
