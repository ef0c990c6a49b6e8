/*
Package formflow is the navigation and submission lifecycle engine for
dynamic multi-step forms. It decides which step the user may be on, derives
the visual progress indicator from server-supplied step applicability, and
tracks the submission lifecycle from start through background processing,
including failure recovery (retry, resume, destroy session).

The engine is UI-agnostic: rendering, field widgets, i18n catalogs and
theming live in the host. The host supplies a ports.Navigator for routing
and reads progress nodes and lifecycle state on every evaluation.

Basic usage:

	engine, err := formflow.New(formflow.Config{
		BaseURL: "https://forms.example/api/v2/",
		FormID:  "my-form",
		Locale:  "nl",
	}, formflow.WithNavigator(hostRouter))
	if err != nil {
		// handle
	}
	if err := engine.Start(ctx); err != nil {
		// boot failure: surface engine.LifecycleState().StartingError
	}
	nodes, _ := engine.ProgressNodes("/stap/personal-details")
*/
package formflow
