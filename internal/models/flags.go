package models

import "strconv"

// FlagKind describes how a repository option is rendered on the command line.
type FlagKind int

// Flag kinds.
const (
	FlagBool   FlagKind = iota // bare flag when true
	FlagScalar                 // flag and value when set
	FlagList                   // flag and value per element
	FlagPair                   // flag and both values per pair
)

// FlagDescriptor binds one duplicity flag to the Repository field it is
// derived from. Exactly one accessor is set, matching Kind.
type FlagDescriptor struct {
	Flag string
	Kind FlagKind

	boolean func(r *Repository) bool
	scalar  func(r *Repository) (string, bool)
	list    func(r *Repository) []string
	pairs   func(r *Repository) []RenamePair
}

func boolFlag(flag string, get func(r *Repository) bool) FlagDescriptor {
	return FlagDescriptor{Flag: flag, Kind: FlagBool, boolean: get}
}

func stringFlag(flag string, get func(r *Repository) *string) FlagDescriptor {
	return FlagDescriptor{Flag: flag, Kind: FlagScalar, scalar: func(r *Repository) (string, bool) {
		v := get(r)
		if v == nil {
			return "", false
		}
		return *v, true
	}}
}

func uintFlag(flag string, get func(r *Repository) *uint64) FlagDescriptor {
	return FlagDescriptor{Flag: flag, Kind: FlagScalar, scalar: func(r *Repository) (string, bool) {
		v := get(r)
		if v == nil {
			return "", false
		}
		return strconv.FormatUint(*v, 10), true
	}}
}

func listFlag(flag string, get func(r *Repository) []string) FlagDescriptor {
	return FlagDescriptor{Flag: flag, Kind: FlagList, list: get}
}

func pairFlag(flag string, get func(r *Repository) []RenamePair) FlagDescriptor {
	return FlagDescriptor{Flag: flag, Kind: FlagPair, pairs: get}
}

// flagTable is the emission order used by ConstructFlags: inclusions,
// then exclusions, then every other option.
var flagTable = []FlagDescriptor{
	listFlag("--include", func(r *Repository) []string { return r.Include }),
	listFlag("--include-filelist", func(r *Repository) []string { return r.IncludeFilelist }),
	listFlag("--include-regexp", func(r *Repository) []string { return r.IncludeRegexp }),

	listFlag("--exclude", func(r *Repository) []string { return r.Exclude }),
	boolFlag("--exclude-device-files", func(r *Repository) bool { return r.ExcludeDeviceFiles }),
	listFlag("--exclude-filelist", func(r *Repository) []string { return r.ExcludeFilelist }),
	listFlag("--exclude-if-present", func(r *Repository) []string { return r.ExcludeIfPresent }),
	stringFlag("--exclude-older-than", func(r *Repository) *string { return r.ExcludeOlderThan }),
	boolFlag("--exclude-other-filesystems", func(r *Repository) bool { return r.ExcludeOtherFilesystems }),
	listFlag("--exclude-regexp", func(r *Repository) []string { return r.ExcludeRegexp }),

	boolFlag("--asynchronous-upload", func(r *Repository) bool { return r.AsynchronousUpload }),
	uintFlag("--backend-retry-delay", func(r *Repository) *uint64 { return r.BackendRetryDelay }),
	boolFlag("--compare-data", func(r *Repository) bool { return r.CompareData }),
	boolFlag("--copy-links", func(r *Repository) bool { return r.CopyLinks }),
	stringFlag("--encrypt-key", func(r *Repository) *string { return r.EncryptKey }),
	stringFlag("--encrypt-secret-keyring", func(r *Repository) *string { return r.EncryptSecretKeyring }),
	stringFlag("--encrypt-sign-key", func(r *Repository) *string { return r.EncryptSignKey }),
	stringFlag("--file-prefix", func(r *Repository) *string { return r.FilePrefix }),
	stringFlag("--file-prefix-manifest", func(r *Repository) *string { return r.FilePrefixManifest }),
	stringFlag("--file-prefix-archive", func(r *Repository) *string { return r.FilePrefixArchive }),
	stringFlag("--file-prefix-signature", func(r *Repository) *string { return r.FilePrefixSignature }),
	stringFlag("--full-if-older-than", func(r *Repository) *string { return r.FullIfOlderThan }),
	boolFlag("--ftp-passive", func(r *Repository) bool { return r.FTPPassive }),
	boolFlag("--ftp-regular", func(r *Repository) bool { return r.FTPRegular }),
	boolFlag("--gio", func(r *Repository) bool { return r.GIO }),
	stringFlag("--hidden-encrypt-key", func(r *Repository) *string { return r.HiddenEncryptKey }),
	stringFlag("--imap-full-address", func(r *Repository) *string { return r.IMAPFullAddress }),
	stringFlag("--imap-mailbox", func(r *Repository) *string { return r.IMAPMailbox }),
	stringFlag("--gpg-binary", func(r *Repository) *string { return r.GPGBinary }),
	stringFlag("--gpg-options", func(r *Repository) *string { return r.GPGOptions }),
	stringFlag("--log-file", func(r *Repository) *string { return r.LogFile }),
	uintFlag("--max-blocksize", func(r *Repository) *uint64 { return r.MaxBlocksize }),
	stringFlag("--name", func(r *Repository) *string { return r.Name }),
	boolFlag("--no-compression", func(r *Repository) bool { return r.NoCompression }),
	boolFlag("--no-encryption", func(r *Repository) bool { return r.NoEncryption }),
	boolFlag("--no-print-statistics", func(r *Repository) bool { return r.NoPrintStatistics }),
	boolFlag("--null-separator", func(r *Repository) bool { return r.NullSeparator }),
	boolFlag("--numeric-owner", func(r *Repository) bool { return r.NumericOwner }),
	uintFlag("--num-retries", func(r *Repository) *uint64 { return r.NumRetries }),
	boolFlag("--old-filenames", func(r *Repository) bool { return r.OldFilenames }),
	stringFlag("--par2-options", func(r *Repository) *string { return r.Par2Options }),
	uintFlag("--par2-redundancy", func(r *Repository) *uint64 { return r.Par2Redundancy }),
	boolFlag("--progress", func(r *Repository) bool { return r.Progress }),
	uintFlag("--progress-rate", func(r *Repository) *uint64 { return r.ProgressRate }),
	pairFlag("--rename", func(r *Repository) []RenamePair { return r.Rename }),
	stringFlag("--rsync-options", func(r *Repository) *string { return r.RsyncOptions }),
	boolFlag("--short-filenames", func(r *Repository) bool { return r.ShortFilenames }),
	stringFlag("--sign-key", func(r *Repository) *string { return r.SignKey }),
	boolFlag("--ssh-askpass", func(r *Repository) bool { return r.SSHAskpass }),
	stringFlag("--ssh-options", func(r *Repository) *string { return r.SSHOptions }),
	stringFlag("--tempdir", func(r *Repository) *string { return r.Tempdir }),
	stringFlag("--time-separator", func(r *Repository) *string { return r.TimeSeparator }),
	uintFlag("--timeout", func(r *Repository) *uint64 { return r.Timeout }),
	boolFlag("--use-agent", func(r *Repository) bool { return r.UseAgent }),
	uintFlag("--volsize", func(r *Repository) *uint64 { return r.Volsize }),
}

// Flags returns a copy of the flag table in emission order.
func Flags() []FlagDescriptor {
	return append([]FlagDescriptor(nil), flagTable...)
}

// Append adds the tokens for this flag, if any, to args.
func (d FlagDescriptor) Append(r *Repository, args []string) []string {
	switch d.Kind {
	case FlagBool:
		if d.boolean(r) {
			args = append(args, d.Flag)
		}
	case FlagScalar:
		if v, ok := d.scalar(r); ok {
			args = append(args, d.Flag, v)
		}
	case FlagList:
		for _, v := range d.list(r) {
			args = append(args, d.Flag, v)
		}
	case FlagPair:
		for _, p := range d.pairs(r) {
			args = append(args, d.Flag, p.From, p.To)
		}
	}
	return args
}

// ConstructFlags returns the duplicity flags derived from the repository
// options. Source, remote and global flags such as --dry-run are not
// included.
func (r *Repository) ConstructFlags() []string {
	flags := []string{}
	for _, d := range flagTable {
		flags = d.Append(r, flags)
	}
	return flags
}
