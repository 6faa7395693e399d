package models

import "strings"

// Operation names a duplicity action run against a repository tree.
type Operation string

// Supported operations.
const (
	OpBackup           Operation = "backup"
	OpVerify           Operation = "verify"
	OpCollectionStatus Operation = "collection-status"
	OpListCurrentFiles Operation = "list-current-files"
	OpCleanup          Operation = "cleanup"
)

// Maintenance actions run after a successful backup, in this order.
const (
	ActionRemoveOlderThan        = "remove_older_than"
	ActionRemoveAllIncOfButNFull = "remove-all-inc-of-but-n-full"
	ActionRemoveAllButNFull      = "remove-all-but-n-full"
)

// GlobalOptions apply to every subprocess of an operation.
type GlobalOptions struct {
	DryRun bool
}

// BackupOptions configures the backup operation.
type BackupOptions struct {
	GlobalOptions
}

// VerifyOptions configures the verify operation.
type VerifyOptions struct {
	GlobalOptions
	CompareData   bool
	Time          string // empty when not set
	FileToRestore string // empty when not set
}

// CollectionStatusOptions configures the collection-status operation.
type CollectionStatusOptions struct {
	GlobalOptions
	FileChanged string
}

// ListCurrentFilesOptions configures the list-current-files operation.
type ListCurrentFilesOptions struct {
	GlobalOptions
	Time string
}

// CleanupOptions configures the cleanup operation.
type CleanupOptions struct {
	GlobalOptions
	Force      bool
	ExtraClean bool
}

// Command is a fully resolved subprocess invocation.
type Command struct {
	Name string
	Args []string
	Env  []string // KEY=value pairs added to the inherited environment
}

// String renders the command line for logs and errors. Env is left out
// as it may carry the passphrase.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}
