package diskio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"golang.org/x/sys/unix"
)

func newTestSampler(counters map[string]disk.IOCountersStat, err error) *Sampler {
	s := NewSampler("/mnt/nas", "", nil)
	s.ioCounters = func(ctx context.Context, names ...string) (map[string]disk.IOCountersStat, error) {
		return counters, err
	}
	s.now = func() time.Time { return time.Unix(1000, 0) }
	return s
}

func TestCountersSumsNonLoopDevices(t *testing.T) {
	s := newTestSampler(map[string]disk.IOCountersStat{
		"sda":   {ReadBytes: 100, WriteBytes: 200},
		"sdb":   {ReadBytes: 50, WriteBytes: 25},
		"loop0": {ReadBytes: 9999, WriteBytes: 9999},
	}, nil)

	r, err := s.Counters(context.Background())
	if err != nil {
		t.Fatalf("Counters: %v", err)
	}
	if r.ReadBytes != 150 {
		t.Errorf("ReadBytes = %d, want 150 (loop devices excluded)", r.ReadBytes)
	}
	if r.WriteBytes != 225 {
		t.Errorf("WriteBytes = %d, want 225", r.WriteBytes)
	}
	if r.Timestamp != time.Unix(1000, 0) {
		t.Errorf("Timestamp = %v, want injected clock", r.Timestamp)
	}
}

func TestCountersFiltersByDevice(t *testing.T) {
	s := newTestSampler(map[string]disk.IOCountersStat{
		"sda": {ReadBytes: 100, WriteBytes: 200},
		"sdb": {ReadBytes: 50, WriteBytes: 25},
	}, nil)
	s.device = "sdb"

	r, err := s.Counters(context.Background())
	if err != nil {
		t.Fatalf("Counters: %v", err)
	}
	if r.ReadBytes != 50 || r.WriteBytes != 25 {
		t.Errorf("got %d/%d, want 50/25 (sdb only)", r.ReadBytes, r.WriteBytes)
	}
}

func TestCountersFailureIsSourceUnavailable(t *testing.T) {
	s := newTestSampler(nil, errors.New("permission denied"))

	_, err := s.Counters(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestCountersEmptyTableIsSourceUnavailable(t *testing.T) {
	s := newTestSampler(map[string]disk.IOCountersStat{}, nil)

	_, err := s.Counters(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestUsage(t *testing.T) {
	s := NewSampler("/mnt/nas", "", nil)
	s.usage = func(ctx context.Context, path string) (*disk.UsageStat, error) {
		if path != "/mnt/nas" {
			t.Errorf("usage queried %q, want /mnt/nas", path)
		}
		return &disk.UsageStat{
			Total: 1000, Used: 400, Free: 600, UsedPercent: 40, Fstype: "ext4",
		}, nil
	}

	info, err := s.Usage(context.Background())
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if info.Used != 400 || info.UsedPercent != 40 || info.FSType != "ext4" {
		t.Errorf("unexpected usage info: %+v", info)
	}
}

func TestUsageFailureIsSourceUnavailable(t *testing.T) {
	s := NewSampler("/mnt/nas", "", nil)
	s.usage = func(ctx context.Context, path string) (*disk.UsageStat, error) {
		return nil, errors.New("not mounted")
	}

	_, err := s.Usage(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestCheckMount(t *testing.T) {
	s := NewSampler("/mnt/nas", "", nil)
	s.statfs = func(path string, buf *unix.Statfs_t) error {
		buf.Blocks = 1024
		return nil
	}
	if err := s.CheckMount(); err != nil {
		t.Errorf("CheckMount: %v", err)
	}

	s.statfs = func(path string, buf *unix.Statfs_t) error {
		return errors.New("no such file or directory")
	}
	if err := s.CheckMount(); err == nil {
		t.Error("expected error for unreachable mount")
	}

	s.statfs = func(path string, buf *unix.Statfs_t) error {
		buf.Blocks = 0
		return nil
	}
	if err := s.CheckMount(); err == nil {
		t.Error("expected error for zero-block filesystem")
	}
}
