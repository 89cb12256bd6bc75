package cli

func cmdMigrate(a *app, args []string) error {
	_ = args

	proj, err := a.openBoard()
	if err != nil {
		return err
	}

	migrated, err := proj.Migrate()
	if err != nil {
		return err
	}

	if !migrated {
		a.io.Println("already migrated")

		return nil
	}

	a.io.Println("migrated", proj.Name, "to the indexed encoding")

	return nil
}
