package models

import (
	"fmt"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Repository is one named entry of the configuration file.
//
// A repository is either a group, listing other repositories in
// SubRepositories, or a leaf backing up Source to Remote. Most of the
// remaining fields mirror duplicity's command line flags one to one.
//
// Decoding a repository does not make it valid; Check must be used for that.
type Repository struct {
	SubRepositories []string `yaml:"sub_repositories,omitempty"`

	Sudo       bool    `yaml:"sudo,omitempty"`
	Passphrase *string `yaml:"passphrase,omitempty"`

	Source *string `yaml:"source,omitempty"`
	Remote *string `yaml:"remote,omitempty"`

	// Retention, applied after a successful backup.
	RemoveOlderThan        *string `yaml:"remove_older_than,omitempty"`
	RemoveAllButNFull      *uint64 `yaml:"remove_all_but_n_full,omitempty"`
	RemoveAllIncOfButNFull *uint64 `yaml:"remove_all_inc_of_but_n_full,omitempty"`

	AsynchronousUpload      bool         `yaml:"asynchronous_upload,omitempty"`
	BackendRetryDelay       *uint64      `yaml:"backend_retry_delay,omitempty"`
	CompareData             bool         `yaml:"compare_data,omitempty"`
	CopyLinks               bool         `yaml:"copy_links,omitempty"`
	EncryptKey              *string      `yaml:"encrypt_key,omitempty"`
	EncryptSecretKeyring    *string      `yaml:"encrypt_secret_keyring,omitempty"`
	EncryptSignKey          *string      `yaml:"encrypt_sign_key,omitempty"`
	Exclude                 []string     `yaml:"exclude,omitempty"`
	ExcludeDeviceFiles      bool         `yaml:"exclude_device_files,omitempty"`
	ExcludeFilelist         []string     `yaml:"exclude_filelist,omitempty"`
	ExcludeIfPresent        []string     `yaml:"exclude_if_present,omitempty"`
	ExcludeOlderThan        *string      `yaml:"exclude_older_than,omitempty"`
	ExcludeOtherFilesystems bool         `yaml:"exclude_other_filesystems,omitempty"`
	ExcludeRegexp           []string     `yaml:"exclude_regexp,omitempty"`
	FilePrefix              *string      `yaml:"file_prefix,omitempty"`
	FilePrefixManifest      *string      `yaml:"file_prefix_manifest,omitempty"`
	FilePrefixArchive       *string      `yaml:"file_prefix_archive,omitempty"`
	FilePrefixSignature     *string      `yaml:"file_prefix_signature,omitempty"`
	FullIfOlderThan         *string      `yaml:"full_if_older_than,omitempty"`
	FTPPassive              bool         `yaml:"ftp_passive,omitempty"`
	FTPRegular              bool         `yaml:"ftp_regular,omitempty"`
	GIO                     bool         `yaml:"gio,omitempty"`
	HiddenEncryptKey        *string      `yaml:"hidden_encrypt_key,omitempty"`
	IMAPFullAddress         *string      `yaml:"imap_full_address,omitempty"`
	IMAPMailbox             *string      `yaml:"imap_mailbox,omitempty"`
	GPGBinary               *string      `yaml:"gpg_binary,omitempty"`
	GPGOptions              *string      `yaml:"gpg_options,omitempty"`
	Include                 []string     `yaml:"include,omitempty"`
	IncludeFilelist         []string     `yaml:"include_filelist,omitempty"`
	IncludeRegexp           []string     `yaml:"include_regexp,omitempty"`
	LogFile                 *string      `yaml:"log_file,omitempty"`
	MaxBlocksize            *uint64      `yaml:"max_blocksize,omitempty"`
	Name                    *string      `yaml:"name,omitempty"`
	NoCompression           bool         `yaml:"no_compression,omitempty"`
	NoEncryption            bool         `yaml:"no_encryption,omitempty"`
	NoPrintStatistics       bool         `yaml:"no_print_statistics,omitempty"`
	NullSeparator           bool         `yaml:"null_separator,omitempty"`
	NumericOwner            bool         `yaml:"numeric_owner,omitempty"`
	NumRetries              *uint64      `yaml:"num_retries,omitempty"`
	OldFilenames            bool         `yaml:"old_filenames,omitempty"`
	Par2Options             *string      `yaml:"par2_options,omitempty"`
	Par2Redundancy          *uint64      `yaml:"par2_redundancy,omitempty"`
	Progress                bool         `yaml:"progress,omitempty"`
	ProgressRate            *uint64      `yaml:"progress_rate,omitempty"`
	Rename                  []RenamePair `yaml:"rename,omitempty"`
	RsyncOptions            *string      `yaml:"rsync_options,omitempty"`
	ShortFilenames          bool         `yaml:"short_filenames,omitempty"`
	SignKey                 *string      `yaml:"sign_key,omitempty"`
	SSHAskpass              bool         `yaml:"ssh_askpass,omitempty"`
	SSHOptions              *string      `yaml:"ssh_options,omitempty"`
	Tempdir                 *string      `yaml:"tempdir,omitempty"`
	TimeSeparator           *string      `yaml:"time_separator,omitempty"`
	Timeout                 *uint64      `yaml:"timeout,omitempty"`
	UseAgent                bool         `yaml:"use_agent,omitempty"`
	Volsize                 *uint64      `yaml:"volsize,omitempty"`
}

// RenamePair is one `--rename <from> <to>` argument, written as a two
// element sequence in the configuration file.
type RenamePair struct {
	From string
	To   string
}

// UnmarshalYAML decodes a `[from, to]` sequence.
func (p *RenamePair) UnmarshalYAML(value *yaml.Node) error {
	var pair []string
	if err := value.Decode(&pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("line %d: rename entries need exactly two elements, got %d", value.Line, len(pair))
	}
	p.From, p.To = pair[0], pair[1]
	return nil
}

// MarshalYAML encodes the pair back as a two element sequence.
func (p RenamePair) MarshalYAML() (interface{}, error) {
	return []string{p.From, p.To}, nil
}

// IsGroup reports whether the repository lists sub-repositories.
func (r *Repository) IsGroup() bool {
	return len(r.SubRepositories) > 0
}

// IsLeaf reports whether both a source and a remote are set.
func (r *Repository) IsLeaf() bool {
	return r.Source != nil && r.Remote != nil
}

// Check verifies that the repository is either a group or a leaf and
// returns the first violated rule.
func (r *Repository) Check() error {
	hasSource, hasRemote := r.Source != nil, r.Remote != nil

	switch {
	case !hasSource && !hasRemote && !r.IsGroup():
		return ErrNoTarget
	case hasSource != hasRemote && !r.IsGroup():
		return ErrPartialTarget
	case hasSource != hasRemote:
		return ErrPartialTargetWithChildren
	case hasSource && hasRemote && r.IsGroup():
		return ErrTargetWithChildren
	}

	if r.TimeSeparator != nil && utf8.RuneCountInString(*r.TimeSeparator) != 1 {
		return fmt.Errorf("%w, got %q", ErrTimeSeparator, *r.TimeSeparator)
	}

	return nil
}
