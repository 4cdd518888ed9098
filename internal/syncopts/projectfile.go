package syncopts

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

// projectFile is the decoding shape of .devsync.hcl, the lowest-priority
// options layer (SPEC_FULL.md §3/§6). Every attribute is optional: a field
// left unset leaves the corresponding SyncOptions field untouched.
type projectFile struct {
	DeleteExtraneous *bool    `hcl:"delete_extraneous,optional"`
	PreserveAttrs    *bool    `hcl:"preserve_attrs,optional"`
	OwnedOnly        *bool    `hcl:"owned_only,optional"`
	IgnoreNames      []string `hcl:"ignore_names,optional"`
	Jobs             *int     `hcl:"jobs,optional"`

	Yocto *struct {
		Ignore    *bool `hcl:"ignore,optional"`
		Downloads *bool `hcl:"downloads,optional"`
		Build     *bool `hcl:"build,optional"`
	} `hcl:"yocto,block"`

	Sysroot *struct {
		Sync *bool `hcl:"sync,optional"`
	} `hcl:"sysroot,block"`

	Build *struct {
		Cargo   *bool `hcl:"cargo,optional"`
		CMake   *bool `hcl:"cmake,optional"`
		Flutter *bool `hcl:"flutter,optional"`
		Meson   *bool `hcl:"meson,optional"`
		Ninja   *bool `hcl:"ninja,optional"`
	} `hcl:"build,block"`

	Svn *struct {
		Ignore *bool `hcl:"ignore,optional"`
		Full   *bool `hcl:"full,optional"`
	} `hcl:"svn,block"`

	Git *struct {
		Ignore          *bool `hcl:"ignore,optional"`
		Full            *bool `hcl:"full,optional"`
		IgnoreStashes   *bool `hcl:"ignore_stashes,optional"`
		IgnoreUnstaged  *bool `hcl:"ignore_unstaged,optional"`
		IgnoreUntracked *bool `hcl:"ignore_untracked,optional"`
		IgnoreUnpushed  *bool `hcl:"ignore_unpushed,optional"`
	} `hcl:"git,block"`
}

// LoadProjectFile reads source/.devsync.hcl, if present, and applies its
// settings onto base. It reports whether the file existed.
func LoadProjectFile(source string, base *SyncOptions) (bool, error) {
	path := filepath.Join(source, ProjectFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Errorf("reading project file %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, ProjectFileName)
	if diags.HasErrors() {
		return true, errors.Errorf("parsing %s: %s", path, diags.Error())
	}

	evalCtx := &hcl.EvalContext{Variables: map[string]cty.Value{}}
	var pf projectFile
	if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &pf); diags.HasErrors() {
		return true, errors.Errorf("decoding %s: %s", path, diags.Error())
	}

	applyProjectFile(base, &pf)
	return true, nil
}

func applyProjectFile(o *SyncOptions, pf *projectFile) {
	setBool(&o.DeleteExtraneous, pf.DeleteExtraneous)
	setBool(&o.PreserveAttrs, pf.PreserveAttrs)
	setBool(&o.OwnedOnly, pf.OwnedOnly)
	if pf.IgnoreNames != nil {
		o.IgnoreNames = pf.IgnoreNames
	}
	if pf.Jobs != nil {
		o.Jobs = *pf.Jobs
	}

	if pf.Yocto != nil {
		setBool(&o.YoctoIgnore, pf.Yocto.Ignore)
		setBool(&o.YoctoDownloads, pf.Yocto.Downloads)
		setBool(&o.YoctoBuild, pf.Yocto.Build)
	}
	if pf.Sysroot != nil {
		setBool(&o.SysrootSync, pf.Sysroot.Sync)
	}
	if pf.Build != nil {
		setBool(&o.CargoSync, pf.Build.Cargo)
		setBool(&o.CMakeSync, pf.Build.CMake)
		setBool(&o.FlutterSync, pf.Build.Flutter)
		setBool(&o.MesonSync, pf.Build.Meson)
		setBool(&o.NinjaSync, pf.Build.Ninja)
	}
	if pf.Svn != nil {
		setBool(&o.SvnIgnore, pf.Svn.Ignore)
		setBool(&o.SvnFull, pf.Svn.Full)
	}
	if pf.Git != nil {
		setBool(&o.GitIgnore, pf.Git.Ignore)
		setBool(&o.GitFull, pf.Git.Full)
		setBool(&o.GitIgnoreStashes, pf.Git.IgnoreStashes)
		setBool(&o.GitIgnoreUnstaged, pf.Git.IgnoreUnstaged)
		setBool(&o.GitIgnoreUntracked, pf.Git.IgnoreUntracked)
		setBool(&o.GitIgnoreUnpushed, pf.Git.IgnoreUnpushed)
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
