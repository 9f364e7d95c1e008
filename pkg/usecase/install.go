package usecase

import (
	"archive/zip"
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/utmget/pkg/domain/interfaces"
	"github.com/m-mizutani/utmget/pkg/domain/model"
	"github.com/m-mizutani/utmget/pkg/infra/utm"
	"github.com/m-mizutani/utmget/pkg/utils/names"
)

type installUseCase struct {
	fetcher interfaces.Fetcher
	now     func() time.Time
}

// NewInstall creates the download-and-install use case
func NewInstall(fetcher interfaces.Fetcher) interfaces.InstallUseCase {
	return &installUseCase{
		fetcher: fetcher,
		now:     time.Now,
	}
}

// Install downloads the chosen archive, extracts it into the documents
// directory and places the requested copies under collision-avoided names,
// patching each copy's config.plist display name.
func (uc *installUseCase) Install(ctx context.Context, archiveURL string, opts *model.InstallOptions) ([]model.InstallRecord, error) {
	logger := ctxlog.From(ctx)

	archivePath, err := uc.download(ctx, archiveURL, opts.DownloadsDir)
	if err != nil {
		return nil, err
	}

	srcPkg, err := uc.extract(ctx, archivePath, opts.DocumentsDir)
	if err != nil {
		return nil, err
	}

	baseName := opts.BaseName
	if baseName == "" {
		baseName = names.Random() + "-" + uc.now().Format("20060102-150405")
	}

	records := make([]model.InstallRecord, 0, opts.Copies)
	for i := 1; i <= opts.Copies; i++ {
		vmName := opts.CopyName(baseName, i)
		dstPkg := utm.UniquePath(filepath.Join(opts.DocumentsDir, vmName+utm.PackageExt))

		if i == 1 {
			if err := movePackage(srcPkg, dstPkg); err != nil {
				return nil, err
			}
		} else {
			// Later copies clone the first installed copy, not the raw
			// extracted source, which no longer exists under its old path.
			if err := utm.CopyDir(records[0].PackagePath, dstPkg); err != nil {
				return nil, goerr.Wrap(err, "failed to copy package",
					goerr.V("src", records[0].PackagePath), goerr.V("dst", dstPkg))
			}
		}

		if err := utm.SetDisplayName(dstPkg, vmName); err != nil {
			return nil, err
		}

		records = append(records, model.InstallRecord{PackagePath: dstPkg, DisplayName: vmName})
		logger.Info("Installed VM package", "name", vmName, "path", dstPkg)
	}

	return records, nil
}

// download streams the archive into downloadsDir, named after the URL path
func (uc *installUseCase) download(ctx context.Context, archiveURL, downloadsDir string) (string, error) {
	logger := ctxlog.From(ctx)

	if err := os.MkdirAll(downloadsDir, 0755); err != nil {
		return "", goerr.Wrap(err, "failed to create downloads directory", goerr.V("dir", downloadsDir))
	}

	u, err := url.Parse(archiveURL)
	if err != nil {
		return "", goerr.Wrap(err, "invalid archive URL", goerr.V("url", archiveURL))
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		name = "gallery-archive" + archiveExt
	}

	archivePath := filepath.Join(downloadsDir, name)
	logger.Info("Downloading archive", "url", archiveURL, "dest", archivePath)

	if err := uc.fetcher.Download(ctx, archiveURL, archivePath); err != nil {
		return "", goerr.Wrap(err, "failed to download archive", goerr.V("url", archiveURL))
	}
	return archivePath, nil
}

const archiveExt = ".zip"

// extract unpacks the archive into docsDir and returns the newest package
// created by the extraction, detected by a before/after directory diff
func (uc *installUseCase) extract(ctx context.Context, archivePath, docsDir string) (string, error) {
	logger := ctxlog.From(ctx)

	if err := os.MkdirAll(docsDir, 0755); err != nil {
		return "", goerr.Wrap(err, "failed to create documents directory", goerr.V("dir", docsDir))
	}

	before, err := utm.ListPackages(docsDir)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list packages", goerr.V("dir", docsDir))
	}

	logger.Info("Extracting archive", "archive", archivePath, "dest", docsDir)
	if err := extractZip(archivePath, docsDir); err != nil {
		return "", goerr.Wrap(err, "failed to extract archive", goerr.V("archive", archivePath))
	}

	created, err := utm.NewPackages(docsDir, before)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list packages", goerr.V("dir", docsDir))
	}
	if len(created) == 0 {
		return "", goerr.New("no .utm package found after extraction", goerr.V("archive", archivePath))
	}

	return created[0], nil
}

// movePackage renames src to dst, skipping when both refer to the same path
func movePackage(src, dst string) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve source path", goerr.V("path", src))
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve destination path", goerr.V("path", dst))
	}
	if absSrc == absDst {
		return nil
	}
	if err := os.Rename(absSrc, absDst); err != nil {
		return goerr.Wrap(err, "failed to move package", goerr.V("src", absSrc), goerr.V("dst", absDst))
	}
	return nil
}

// extractZip unpacks archivePath into destDir
func extractZip(archivePath, destDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return goerr.Wrap(err, "failed to open zip archive")
	}
	defer zr.Close()

	for _, file := range zr.File {
		if err := extractFile(file, destDir); err != nil {
			return goerr.Wrap(err, "failed to extract file", goerr.V("name", file.Name))
		}
	}
	return nil
}

// extractFile extracts a single file from the archive to the destination
// directory
func extractFile(file *zip.File, destDir string) error {
	// Security check: prevent path traversal attacks
	destPath := filepath.Join(destDir, file.Name)
	if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return goerr.New("invalid file path in archive", goerr.V("name", file.Name))
	}

	if file.FileInfo().IsDir() {
		return os.MkdirAll(destPath, file.FileInfo().Mode())
	}

	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.FileInfo().Mode())
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, rc)
	return err
}
