package main

import "github.com/mofa-run/mofa/pkg/persistence"

// DbCmd reports on the runtime's persistence stores. Concrete database
// schemas are out of scope; pkg/persistence's contracts
// are backed in-process by InMemory* implementations, so this command
// demonstrates that the store contracts are constructible and usable
// rather than inspecting any durable backend.
type DbCmd struct {
	Status DbStatusCmd `cmd:"" help:"Show which persistence stores are available."`
}

type DbStatusCmd struct{}

func (c *DbStatusCmd) Run(app *App) error {
	providers := persistence.NewInMemoryProviderStore()
	messages := persistence.NewInMemoryMessageStore()
	calls := persistence.NewInMemoryApiCallStore()
	sessions := persistence.NewInMemorySessionStore()
	agents := persistence.NewInMemoryAgentStore(providers)

	return app.printResult(map[string]string{
		"backend":  "in-memory",
		"messages": typeName(messages),
		"calls":    typeName(calls),
		"sessions": typeName(sessions),
		"agents":   typeName(agents),
		"providers": typeName(providers),
	})
}

func typeName(v any) string {
	switch v.(type) {
	case *persistence.InMemoryMessageStore:
		return "InMemoryMessageStore"
	case *persistence.InMemoryApiCallStore:
		return "InMemoryApiCallStore"
	case *persistence.InMemorySessionStore:
		return "InMemorySessionStore"
	case *persistence.InMemoryAgentStore:
		return "InMemoryAgentStore"
	case *persistence.InMemoryProviderStore:
		return "InMemoryProviderStore"
	default:
		return "unknown"
	}
}
