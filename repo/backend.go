package repo

// Backend is the version control specific half of a Repository. A backend
// supplies the constants describing one VCS tool (display name, default
// revision expression, Debian control field, command templates) and the
// operations that need tool specific output parsing.
//
// Command templates contain the placeholders {local}, {remote}, {revision}
// and {directory}; substituted values are shell escaped by the Repository
// before the command runs.
type Backend interface {
	// Name is the friendly display name of the VCS, e.g. "Mercurial".
	Name() string

	// DefaultRevision is the revision expression used when the caller
	// doesn't supply one, e.g. "master" for Git.
	DefaultRevision() string

	// ControlField is the Debian control file field for this VCS,
	// e.g. "Vcs-Git".
	ControlField() string

	// CreateCommand is the template used to create a local clone.
	CreateCommand() string

	// UpdateCommand is the template used to pull new changes into an
	// existing clone.
	UpdateCommand() string

	// ExportCommand is the template used to export a revision's tree to a
	// directory.
	ExportCommand() string

	// MetadataDir returns the directory holding the VCS metadata for a
	// clone at local.
	MetadataDir(local string) string

	// Exists reports whether local contains a clone of this backend's VCS.
	Exists(local string) bool

	// RevisionNumber resolves a revision expression to the local,
	// history-depth based revision number.
	RevisionNumber(r *Repository, revision string) (int, error)

	// RevisionID resolves a revision expression to the global revision id.
	RevisionID(r *Repository, revision string) (string, error)

	// Branches enumerates the named branches. Backends without a usable
	// branch concept return an empty slice (and log a warning) instead of
	// an error.
	Branches(r *Repository) ([]*Revision, error)

	// Tags enumerates the tags.
	Tags(r *Repository) ([]*Revision, error)
}
