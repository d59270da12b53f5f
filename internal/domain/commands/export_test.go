package commands

// PrepareArtifactLinks exports prepareArtifactLinks for testing.
var PrepareArtifactLinks = prepareArtifactLinks //nolint:gochecknoglobals // test export

// InstallArtifactLinks exports installArtifactLinks for testing.
var InstallArtifactLinks = installArtifactLinks //nolint:gochecknoglobals // test export

// ShortRevision exports shortRevision for testing.
var ShortRevision = shortRevision //nolint:gochecknoglobals // test export
