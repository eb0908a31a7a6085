// Package sumpool hashes independent messages concurrently. Each message gets
// its own hash computation; nothing mutable is shared between them.
package sumpool

import (
	"context"
	"io/ioutil"
	"os"
	"strconv"
	"sync"

	"github.com/orcaman/concurrent-map"
	"github.com/panjf2000/ants"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/cpu"
	"massnet.org/sha2/hashutil"
	"massnet.org/sha2/hashutil/ccache"
	"massnet.org/sha2/logging"
)

// Result is the outcome of hashing one file.
type Result struct {
	Path   string
	Hash   hashutil.Hash
	Size   int64
	Cached bool
	Err    error
}

type Pool struct {
	workers    int
	workerPool *ants.Pool
	cache      *ccache.CCache
}

// DefaultWorkers returns the number of logical CPUs, at least 1.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		logging.VPrint(logging.WARN, "cannot count logical cpus", logging.LogFormat{"err": err})
		return 1
	}
	return n
}

// NewPool starts a pool of workers hashers; workers <= 0 uses DefaultWorkers.
// cacheEntries > 0 memoizes file digests by path, size and modification time.
func NewPool(workers, cacheEntries int) (*Pool, error) {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	workerPool, err := ants.NewPoolPreMalloc(workers)
	if err != nil {
		return nil, errors.Wrapf(err, "start %d workers", workers)
	}
	p := &Pool{
		workers:    workers,
		workerPool: workerPool,
	}
	if cacheEntries > 0 {
		p.cache = ccache.NewCCache(cacheEntries)
	}
	logging.VPrint(logging.DEBUG, "sumpool started", logging.LogFormat{"workers": workers, "cache": cacheEntries})
	return p, nil
}

func (p *Pool) Workers() int {
	return p.workers
}

// Close stops the workers. The pool must not be used afterwards.
func (p *Pool) Close() {
	p.workerPool.Release()
}

// run submits n jobs, stopping early once ctx is done, and waits for the
// submitted ones to finish.
func (p *Pool) run(ctx context.Context, n int, job func(i int)) error {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}
		i0 := i
		wg.Add(1)
		if err := p.workerPool.Submit(func() {
			defer wg.Done()
			job(i0)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return errors.Wrap(err, "submit hash job")
		}
	}
	wg.Wait()
	return ctx.Err()
}

// HashBytes returns the digest of every message, in input order.
func (p *Pool) HashBytes(ctx context.Context, msgs [][]byte) ([]hashutil.Hash, error) {
	sums := make([]hashutil.Hash, len(msgs))
	err := p.run(ctx, len(msgs), func(i int) {
		sums[i] = hashutil.SHA256(msgs[i])
	})
	if err != nil {
		return nil, err
	}
	return sums, nil
}

// HashFiles reads and hashes every file, returning results in input order.
// A file that cannot be read is reported in its Result.Err; the returned
// error is only set when ctx ends before all files were hashed.
func (p *Pool) HashFiles(ctx context.Context, paths []string) ([]Result, error) {
	results := cmap.New()
	err := p.run(ctx, len(paths), func(i int) {
		results.Set(strconv.Itoa(i), p.hashFile(paths[i]))
	})
	if err != nil {
		return nil, err
	}

	out := make([]Result, len(paths))
	for i := range paths {
		v, _ := results.Get(strconv.Itoa(i))
		out[i] = v.(Result)
	}
	return out, nil
}

func (p *Pool) hashFile(path string) Result {
	res := Result{Path: path}
	fi, err := os.Stat(path)
	if err != nil {
		res.Err = err
		return res
	}
	if fi.IsDir() {
		res.Err = errors.Errorf("%s: is a directory", path)
		return res
	}

	key := ccache.NewFileKey(path, fi.Size(), fi.ModTime())
	if p.cache != nil {
		if h, ok := p.cache.Get(key); ok {
			res.Hash, res.Size, res.Cached = h, fi.Size(), true
			return res
		}
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Hash = hashutil.SHA256(data)
	res.Size = int64(len(data))
	if p.cache != nil {
		p.cache.Add(key, res.Hash)
	}
	logging.VPrint(logging.TRACE, "hashed file", logging.LogFormat{"path": path, "size": res.Size})
	return res
}
