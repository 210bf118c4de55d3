package command

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/enmccarthy/lbann/internal/cluster"
)

// AllowedExtraFlags is the allow-list for ExtraFlags keys. Flags with
// dedicated Request fields (model, reader, optimizer, metadata,
// mini_batch_size, num_epochs, data locations, data_reader_percent,
// exit_after_setup, procs_per_model) are intentionally absent.
var AllowedExtraFlags = []string{
	// General
	"block_size",
	"procs_per_trainer",
	"num_gpus",
	"num_parallel_readers",
	"num_io_threads",
	"serialize_io",
	"disable_background_io_activity",
	"disable_cuda",
	"random_seed",
	"objective_function",
	"data_layout",
	"print_affinity",
	"use_data_store",
	"preload_data_store",
	"super_node",
	"write_sample_list",
	"ltfb_verbose",
	"ckpt_dir",

	// Data readers
	"index_list_train",
	"index_list_test",
	"label_filename_train",
	"label_filename_test",
	"share_testing_data_readers",

	// Callbacks
	"image_dir",
	"no_im_comm",
}

// Prototext path templates under a shared source tree
const (
	modelPathTemplate     = "%s/model_zoo/%s/model_%s.prototext"
	readerPathTemplate    = "%s/model_zoo/data_readers/data_reader_%s.prototext"
	optimizerPathTemplate = "%s/model_zoo/optimizers/opt_%s.prototext"
)

// SyntheticReader is the data reader that needs no data files on disk
const SyntheticReader = "synthetic"

// Reader-percent defaults: weekly runs read everything, nightly runs
// read a tenth.
const (
	weeklyReaderPercent  = 1.00
	nightlyReaderPercent = 0.10
)

// buildApplication serializes the executable's own flags in their
// fixed emission order and cross-validates the request fields.
// Every violation found is collected; the caller fails once with the
// full list.
func buildApplication(clus cluster.Cluster, req *Request) (string, []string) {
	var violations []string

	optModel := resolveModel(req, &violations)
	optReader := resolveReader(req, &violations)
	optOptimizer := resolveOptimizer(req, &violations)
	validateDirName(req, &violations)

	optFiledir, optTrain := resolveDataLocation(clus, req, &violations)
	optPercent := resolveReaderPercent(req, &violations)
	optExtra := resolveExtraFlags(req, &violations)

	var b strings.Builder
	b.WriteString(req.Executable)
	if req.CkptDir != "" {
		fmt.Fprintf(&b, " --ckpt_dir=%s", req.CkptDir)
	}
	b.WriteString(optFiledir)
	b.WriteString(optTrain)
	b.WriteString(optReader)
	b.WriteString(optPercent)
	if req.ExitAfterSetup {
		b.WriteString(" --exit_after_setup")
	}
	if req.Metadata != "" {
		fmt.Fprintf(&b, " --metadata=%s/%s", req.DirName, req.Metadata)
	}
	if req.MiniBatchSize != 0 {
		fmt.Fprintf(&b, " --mini_batch_size=%d", req.MiniBatchSize)
	}
	b.WriteString(optModel)
	if req.NumEpochs != 0 {
		fmt.Fprintf(&b, " --num_epochs=%d", req.NumEpochs)
	}
	b.WriteString(optOptimizer)
	if req.ProcessesPerModel != 0 {
		fmt.Fprintf(&b, " --procs_per_model=%d", req.ProcessesPerModel)
	}
	b.WriteString(optExtra)

	return b.String(), violations
}

// resolveModel produces the --model flag from either an explicit path
// or the dir_name/folder/name template. Supplying both forms, or half
// of the folder/name pair, is a violation.
func resolveModel(req *Request, violations *[]string) string {
	if req.ModelPath != "" {
		if req.DirName != "" && (req.ModelFolder != "" || req.ModelName != "") {
			*violations = append(*violations,
				"model_path is set but so is at least one of model folder and model_name")
		}
		return fmt.Sprintf(" --model=%s", req.ModelPath)
	}
	if req.DirName == "" {
		return ""
	}
	switch {
	case req.ModelFolder != "" && req.ModelName != "":
		return fmt.Sprintf(" --model="+modelPathTemplate, req.DirName, req.ModelFolder, req.ModelName)
	case req.ModelFolder != "":
		*violations = append(*violations, "model_folder set but not model_name.")
	case req.ModelName != "":
		*violations = append(*violations, "model_name set but not model_folder.")
	}
	return ""
}

// resolveReader produces the --reader flag from either an explicit
// path or the dir_name/name template; both at once is a violation.
func resolveReader(req *Request, violations *[]string) string {
	if req.DirName != "" && req.DataReaderName != "" {
		if req.DataReaderPath != "" {
			*violations = append(*violations, "data_reader_path is set but so is data_reader_name")
		} else {
			return fmt.Sprintf(" --reader="+readerPathTemplate, req.DirName, req.DataReaderName)
		}
	}
	if req.DataReaderPath != "" {
		return fmt.Sprintf(" --reader=%s", req.DataReaderPath)
	}
	return ""
}

// resolveOptimizer mirrors resolveReader for the --optimizer flag
func resolveOptimizer(req *Request, violations *[]string) string {
	if req.DirName != "" && req.OptimizerName != "" {
		if req.OptimizerPath != "" {
			*violations = append(*violations, "optimizer_path is set but so is optimizer_name")
		} else {
			return fmt.Sprintf(" --optimizer="+optimizerPathTemplate, req.DirName, req.OptimizerName)
		}
	}
	if req.OptimizerPath != "" {
		return fmt.Sprintf(" --optimizer=%s", req.OptimizerPath)
	}
	return ""
}

// validateDirName enforces that dir_name is set exactly when at least
// one templated field needs it.
func validateDirName(req *Request, violations *[]string) {
	usesDirName := req.ModelFolder != "" || req.ModelName != "" ||
		req.DataReaderName != "" || req.OptimizerName != ""
	if req.DirName != "" {
		if !usesDirName {
			*violations = append(*violations,
				"dir_name set but none of model_folder, model_name, data_reader_name, optimizer_name are.")
		}
	} else if usesDirName {
		*violations = append(*violations,
			"dir_name is not set but at least one of model_folder, model_name, data_reader_name, optimizer_name is.")
	}
}

// resolveDataLocation handles the two mutually exclusive data-location
// shapes: a single default directory, or the four train/test
// directory+filename defaults. Clusters whose native scratch path is
// already correct pass no data-location flags at all; the others get
// the scratch-mount token rewritten.
func resolveDataLocation(clus cluster.Cluster, req *Request, violations *[]string) (optFiledir, optTrainTest string) {
	quad := []string{
		req.DataFiledirTrainDefault,
		req.DataFilenameTrainDefault,
		req.DataFiledirTestDefault,
		req.DataFilenameTestDefault,
	}
	anyQuad := false
	allQuad := true
	for _, p := range quad {
		if p != "" {
			anyQuad = true
		} else {
			allQuad = false
		}
	}

	rewrite := clus.Attrs().ScratchMount != ""

	if req.DataFiledirDefault != "" {
		if rewrite {
			optFiledir = fmt.Sprintf(" --data_filedir=%s", clus.RewriteDataDir(req.DataFiledirDefault))
		}
	} else if allQuad && rewrite {
		optTrainTest = fmt.Sprintf(" --data_filedir_train=%s", clus.RewriteDataDir(req.DataFiledirTrainDefault)) +
			fmt.Sprintf(" --data_filename_train=%s", clus.RewriteDataFilename(req.DataFilenameTrainDefault)) +
			fmt.Sprintf(" --data_filedir_test=%s", clus.RewriteDataDir(req.DataFiledirTestDefault)) +
			fmt.Sprintf(" --data_filename_test=%s", clus.RewriteDataFilename(req.DataFilenameTestDefault))
	}

	hasReader := req.DataReaderName != "" || req.DataReaderPath != ""
	if hasReader {
		if req.DataFiledirDefault != "" {
			if anyQuad {
				*violations = append(*violations,
					"data_filedir_default set but so is at least one of"+
						" [data_filedir_train_default, data_filename_train_default,"+
						" data_filedir_test_default, data_filename_test_default]")
			}
		} else if !anyQuad && req.DataReaderName != SyntheticReader {
			*violations = append(*violations,
				"data_reader_name or data_reader_path is set but not data_filedir_default."+
					" If a data reader is provided, the default filedir must be set."+
					" This allows for determining what the filedir should be on each cluster."+
					" Alternatively, some or all of [data_filedir_train_default,"+
					" data_filename_train_default, data_filedir_test_default,"+
					" data_filename_test_default] can be set.")
		}
	} else {
		if req.DataFiledirDefault != "" {
			*violations = append(*violations,
				"data_filedir_default set but neither data_reader_name or data_reader_path are.")
		} else if anyQuad {
			*violations = append(*violations,
				"At least one of [data_filedir_train_default, data_filename_train_default,"+
					" data_filedir_test_default, data_filename_test_default] is set,"+
					" but neither data_reader_name or data_reader_path are.")
		}
	}

	return optFiledir, optTrainTest
}

// resolveReaderPercent validates a supplied percentage or falls back
// to the weekly/nightly default. The flag is always emitted.
func resolveReaderPercent(req *Request, violations *[]string) string {
	percent := nightlyReaderPercent
	if req.Weekly {
		percent = weeklyReaderPercent
	}
	if req.DataReaderPercent != "" {
		parsed, err := strconv.ParseFloat(req.DataReaderPercent, 64)
		if err != nil {
			*violations = append(*violations,
				fmt.Sprintf("data_reader_percent=%s is not a float.", req.DataReaderPercent))
		} else {
			percent = parsed
		}
	}
	return fmt.Sprintf(" --data_reader_percent=%g", percent)
}

// resolveExtraFlags serializes the open flag mapping in lexicographic
// order, rejecting keys outside the allow-list.
func resolveExtraFlags(req *Request, violations *[]string) string {
	if len(req.ExtraFlags) == 0 {
		return ""
	}

	allowed := make(map[string]bool, len(AllowedExtraFlags))
	for _, flag := range AllowedExtraFlags {
		allowed[flag] = true
	}

	flags := make([]string, 0, len(req.ExtraFlags))
	for flag := range req.ExtraFlags {
		flags = append(flags, flag)
	}
	sort.Strings(flags)

	var b strings.Builder
	for _, flag := range flags {
		if !allowed[flag] {
			*violations = append(*violations, fmt.Sprintf(
				"extra_lbann_flags includes invalid flag=%s. Flags must be in [%s].",
				flag, strings.Join(AllowedExtraFlags, ", ")))
			continue
		}
		if value := req.ExtraFlags[flag]; value != nil {
			fmt.Fprintf(&b, " --%s=%v", flag, value)
		} else {
			fmt.Fprintf(&b, " --%s", flag)
		}
	}
	return b.String()
}
