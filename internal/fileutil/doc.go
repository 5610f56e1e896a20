// Package fileutil finds the files a whole-project run should consider.
//
// ScanDirectory walks a directory and returns sorted absolute paths, skipping
// version-control and dependency directories, hidden directories, and
// anything the caller's Exclude predicate rejects. Errors met while walking
// are collected on the result instead of stopping the scan.
//
// Discovery for path-comment combines the configured exclude globs with the
// dialect classifier:
//
//	result, err := fileutil.ScanDirectory(root, fileutil.ScanOptions{
//	    Recursive:   true,
//	    ExcludeDirs: fileutil.DefaultExcludeDirs,
//	    Exclude:     cfg.ShouldExclude,
//	    Accept: func(path string) bool {
//	        t, err := classifier.Classify(path)
//	        return err == nil && !t.IsZero()
//	    },
//	})
package fileutil
