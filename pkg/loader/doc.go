// Package loader materializes a configuration tree into a catalog.Catalog.
//
// # Layout
//
//	projects/
//	├── PROJECT_1/
//	│   └── WEBSITE.yml          application PROJECT_1.WEBSITE
//	└── PROJECT_2/
//	    ├── defaults.yml         project team, domain, user, customization
//	    ├── WEBSITE_v1.yml
//	    └── notes.txt            ignored
//
// # Usage
//
//	cat, err := loader.New().Load(ctx, "projects")
//	if err != nil {
//	    return err
//	}
//	if err := cat.Resolve(); err != nil {
//	    // catalog.ResolutionErrors lists every dangling reference
//	}
//
// Every call builds a fresh Catalog; nothing is shared between loads.
// Loading is sequential and the Catalog is read-only once Load returns.
package loader
