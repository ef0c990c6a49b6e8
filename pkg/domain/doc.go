/*
Package domain contains the core domain models for the formflow engine.

It defines the fundamental entities of the submission lifecycle, such as the
Form and its Steps, the Submission with its per-step applicability records,
the lifecycle State and its Transitions, and the ProgressNode entries that
feed the visual step indicator. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Form: The immutable form definition fetched from the backend.
  - Submission: An in-flight submission with per-step status records.
  - State: Captures the lifecycle snapshot (phase, working submission,
    submitted snapshot, processing status and errors).
  - Transition: A closed set of lifecycle inputs consumed by the evaluator.
  - ProgressNode: One display-ready entry of the progress indicator.
*/
package domain
