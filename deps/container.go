package deps

// An ignitor takes a Deps container and returns it with one more
// dependency bootstrapped.
type Ignitor func(Deps) (Deps, error)

// Bootstrap runs the default ignitors against the config file at path.
func Bootstrap(path string) (Deps, error) {
	return Run(Deps{ConfigFile: path},
		IgniteConfig,
		IgniteLogger,
		IgniteSentry,
		IgniteStore,
	)
}

// Run applies ignitors in order, stopping at the first failure. Whatever was
// opened before the failure is closed.
func Run(container Deps, ignitors ...Ignitor) (Deps, error) {
	for _, fn := range ignitors {
		next, err := fn(container)
		if err != nil {
			container.Close()
			return container, err
		}
		container = next
	}
	return container, nil
}
