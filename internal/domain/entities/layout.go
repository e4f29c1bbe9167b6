package entities

// Layout of a version's directory below the checkouts root
const (
	CheckoutDir = "checkout"
	BuildDir    = "build"

	// Below BuildDir
	BuildSrcDir      = "src"
	BuildClassesDir  = "classes"
	BuildPatternsDir = "patterns"
)
