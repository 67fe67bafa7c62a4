package processor

import (
	"context"
	"errors"
	"maps"
	"testing"
	"time"

	wallclock "github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/pemu/instruction"
	"github.com/ezrec/pemu/memory"
)

type mockInstruction struct {
	mock.Mock
}

func (inst *mockInstruction) Keyword() string { return "MOCK" }

func (inst *mockInstruction) WordLength() int { return 2 }

func (inst *mockInstruction) ArgumentCount() int { return 1 }

func (inst *mockInstruction) Execute(p instruction.Processor, args []uint32) error {
	return inst.Called(p, args).Error(0)
}

type testSet struct {
	insts []instruction.Instruction
}

func (set *testSet) Instruction(opcode uint32) (inst instruction.Instruction, ok bool) {
	if int(opcode) < len(set.insts) {
		inst, ok = set.insts[opcode], true
	}
	return
}

func (set *testSet) Opcode(keyword string) (opcode uint32, ok bool) {
	return
}

func (set *testSet) Len() int { return len(set.insts) }

func opcode(keyword string) uint32 {
	op, ok := instruction.BASIC.Opcode(keyword)
	if !ok {
		panic(keyword)
	}
	return op
}

func newTestProcessor(t *testing.T, set instruction.Set) (p *Processor, source *wallclock.Mock, hook *test.Hook) {
	var log *logrus.Logger
	log, hook = test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	source = wallclock.NewMock()
	cfg := Config{Bits: 8, MemorySize: 16, Frequency: 100}

	p, err := NewProcessor(cfg, set, WithClockSource(source), WithLogger(log))
	require.NoError(t, err)
	return
}

func TestNewProcessor(t *testing.T) {
	assert := assert.New(t)

	p, _, _ := newTestProcessor(t, instruction.BASIC)

	ip, err := p.Register("IP")
	assert.NoError(err)
	assert.Equal(uint32(3), ip.Value())
	assert.Equal(0, ip.Address())

	sp, err := p.Register("SP")
	assert.NoError(err)
	assert.Equal(uint32(15), sp.Value())

	cf, err := p.Flag("CF")
	assert.NoError(err)
	assert.Equal(2, cf.Address())
	assert.Equal(1, cf.Bit())

	_, err = p.Register("XX")
	assert.ErrorIs(err, memory.ErrNotFound)

	assert.Len(p.Registers(), 2)
	assert.Len(p.Flags(), 2)
	assert.Equal(PROGRAM_ADDRESS, p.ProgramAddress())
	assert.Equal(RESERVED_WORDS, p.ReservedWords())
	assert.False(p.IsRunning())
	assert.False(p.IsPaused())
	assert.Equal(NOT_RUNNING, p.TimeRunning())

	_, err = NewProcessor(DefaultConfig(), nil)
	assert.ErrorIs(err, ErrInstructionSet)

	_, err = NewProcessor(Config{Bits: 8, MemorySize: 16}, instruction.BASIC)
	assert.ErrorIs(err, ErrConfig)
}

func TestProcessorKeys(t *testing.T) {
	assert := assert.New(t)

	p, _, _ := newTestProcessor(t, instruction.BASIC)

	p.SetKeyPressed(65)
	p.SetCharPressed('a')
	assert.Equal(65, p.KeyPressed())
	assert.Equal('a', p.CharPressed())
}

func TestLoadProgram(t *testing.T) {
	assert := assert.New(t)

	p, _, _ := newTestProcessor(t, instruction.BASIC)

	program := make([]uint32, 12)
	for n := range program {
		program[n] = uint32(n + 1)
	}
	assert.NoError(p.LoadProgram(program))

	words, err := p.Memory().GetRange(PROGRAM_ADDRESS, 12)
	assert.NoError(err)
	assert.Equal(program, words)

	p.Memory().Clear()
	err = p.LoadProgram(append(program, 13))
	assert.ErrorIs(err, ErrProgramTooLarge)
	var size *ErrProgramSize
	assert.True(errors.As(err, &size))
	assert.Equal(13, size.Length)
	assert.Equal(12, size.Available)

	words, err = p.Memory().GetRange(PROGRAM_ADDRESS, 12)
	assert.NoError(err)
	assert.Equal(make([]uint32, 12), words)
}

func TestTick(t *testing.T) {
	assert := assert.New(t)

	p, _, _ := newTestProcessor(t, instruction.BASIC)

	assert.NoError(p.LoadProgram([]uint32{opcode("DATA"), 12, 42, opcode("INC"), 12}))

	halted, err := p.Tick()
	assert.NoError(err)
	assert.False(halted)

	value, _ := p.Memory().Get(12)
	assert.Equal(uint32(42), value)

	ip, _ := p.Register("IP")
	assert.Equal(uint32(6), ip.Value())

	_, err = p.Tick()
	assert.NoError(err)
	value, _ = p.Memory().Get(12)
	assert.Equal(uint32(43), value)
	assert.Equal(uint32(8), ip.Value())

	assert.Equal([]instruction.Entry{{Address: 3, Keyword: "DATA"}, {Address: 6, Keyword: "INC"}}, p.History().Entries())

	ip.SetValue(16)
	halted, err = p.Tick()
	assert.NoError(err)
	assert.True(halted)
}

func TestTickAdvancesBeforeExecute(t *testing.T) {
	assert := assert.New(t)

	var seen uint32
	set := &testSet{insts: []instruction.Instruction{
		&instruction.Func{Name: "PEEK", Args: 2, Exec: func(p instruction.Processor, args []uint32) error {
			ip, err := p.Register("IP")
			if err == nil {
				seen = ip.Value()
			}
			return err
		}},
	}}

	p, _, _ := newTestProcessor(t, set)

	_, err := p.Tick()
	assert.NoError(err)
	assert.Equal(uint32(6), seen)
}

func TestTickUnknown(t *testing.T) {
	assert := assert.New(t)

	p, _, _ := newTestProcessor(t, instruction.BASIC)
	assert.NoError(p.LoadProgram([]uint32{0xff}))

	_, err := p.Tick()
	assert.ErrorIs(err, ErrInstructionUnknown)
	var unknown *ErrUnknownInstruction
	assert.True(errors.As(err, &unknown))
	assert.Equal(3, unknown.Address)
	assert.Equal(uint32(0xff), unknown.Opcode)

	ip, _ := p.Register("IP")
	assert.Equal(uint32(3), ip.Value())
	assert.Equal(0, p.History().Len())
}

func TestTickFailure(t *testing.T) {
	assert := assert.New(t)

	fault := errors.New("fault")
	inst := &mockInstruction{}
	p, _, _ := newTestProcessor(t, &testSet{insts: []instruction.Instruction{inst}})

	assert.NoError(p.LoadProgram([]uint32{0, 7}))
	inst.On("Execute", p, []uint32{7}).Return(fault).Once()

	_, err := p.Tick()
	assert.ErrorIs(err, ErrExecutionFailed)
	assert.ErrorIs(err, fault)

	var exec *ErrExecution
	assert.True(errors.As(err, &exec))
	assert.Equal("MOCK", exec.Keyword)
	assert.Equal(3, exec.Address)

	inst.AssertExpectations(t)
}

func TestRunHalt(t *testing.T) {
	assert := assert.New(t)

	p, _, _ := newTestProcessor(t, instruction.BASIC)
	assert.NoError(p.LoadProgram([]uint32{opcode("HLT")}))

	assert.NoError(p.Run())
	assert.False(p.IsRunning())
	assert.Equal(1, p.History().Len())
}

func TestRunOffEnd(t *testing.T) {
	assert := assert.New(t)

	p, _, _ := newTestProcessor(t, instruction.BASIC)
	ip, _ := p.Register("IP")
	ip.SetValue(16)

	assert.NoError(p.Run())
	assert.False(p.IsRunning())
	assert.Equal(0, p.History().Len())
}

func TestTickWrapHalts(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	p, err := NewProcessor(Config{Bits: 8, MemorySize: 256, Frequency: 100}, instruction.BASIC)
	require.NoError(err)

	halted := false
	for range 300 {
		halted, err = p.Tick()
		if halted || err != nil {
			break
		}
	}
	assert.NoError(err)
	assert.True(halted)

	entries := p.History().Entries()
	if assert.NotEmpty(entries) {
		assert.Equal(255, entries[len(entries)-1].Address)
	}

	ip, _ := p.Register("IP")
	require.NoError(p.Memory().SetRange(254, []uint32{opcode("JMP"), 10}))
	ip.SetValue(254)
	halted, err = p.Tick()
	assert.NoError(err)
	assert.False(halted)
	assert.Equal(uint32(10), ip.Value())
}

func TestRunContextCancelled(t *testing.T) {
	assert := assert.New(t)

	p, _, _ := newTestProcessor(t, instruction.BASIC)
	assert.NoError(p.LoadProgram([]uint32{opcode("JMP"), PROGRAM_ADDRESS}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(p.RunContext(ctx))
	assert.False(p.IsRunning())
	assert.Equal(0, p.History().Len())
}

func TestRunFault(t *testing.T) {
	assert := assert.New(t)

	p, _, hook := newTestProcessor(t, instruction.BASIC)
	assert.NoError(p.LoadProgram([]uint32{opcode("POP"), 10}))
	sp, _ := p.Register("SP")
	sp.SetValue(15)

	err := p.Run()
	assert.ErrorIs(err, ErrExecutionFailed)
	assert.ErrorIs(err, instruction.ErrStackEmpty)
	assert.False(p.IsRunning())

	entry := hook.LastEntry()
	if assert.NotNil(entry) {
		assert.Equal(logrus.ErrorLevel, entry.Level)
		assert.ErrorIs(entry.Data[logrus.ErrorKey].(error), ErrExecutionFailed)
	}
}

func TestRunVerbose(t *testing.T) {
	assert := assert.New(t)

	p, _, hook := newTestProcessor(t, instruction.BASIC)
	p.Verbose = true
	assert.NoError(p.LoadProgram([]uint32{opcode("HLT")}))

	assert.NoError(p.Run())

	entry := hook.LastEntry()
	if assert.NotNil(entry) {
		assert.Equal(logrus.DebugLevel, entry.Level)
		assert.Equal("HLT", entry.Data["keyword"])
		assert.Equal(3, entry.Data["ip"])
	}
}

func TestRunPauseStep(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	p, source, _ := newTestProcessor(t, instruction.BASIC)
	require.NoError(p.LoadProgram([]uint32{opcode("JMP"), PROGRAM_ADDRESS}))
	interval := p.Clock().Interval()

	p.Pause()
	assert.True(p.IsPaused())

	done := make(chan error, 1)
	go func() {
		done <- p.Run()
	}()

	require.Eventually(func() bool { return p.TimeRunning() != NOT_RUNNING }, time.Second, time.Millisecond)

	source.Add(time.Second)
	assert.LessOrEqual(time.Second, p.TimeRunning())

	tick := func() int {
		source.Add(interval)
		return p.History().Len()
	}

	assert.Never(func() bool { return tick() != 0 }, 50*time.Millisecond, 5*time.Millisecond)

	p.Step()
	assert.Eventually(func() bool { return tick() == 1 }, time.Second, 5*time.Millisecond)
	assert.Never(func() bool { return tick() != 1 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.True(p.IsPaused())

	assert.ErrorIs(p.Reset(), ErrRunning)

	p.Resume()
	assert.Eventually(func() bool { return tick() > 2 }, time.Second, 5*time.Millisecond)

	p.Stop()
	select {
	case err := <-done:
		assert.NoError(err)
	case <-time.After(time.Second):
		assert.Fail("run did not stop")
	}
	assert.False(p.IsRunning())
	assert.Equal(NOT_RUNNING, p.TimeRunning())
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	p, _, _ := newTestProcessor(t, instruction.BASIC)
	assert.NoError(p.LoadProgram([]uint32{opcode("DATA"), 12, 1}))
	_, err := p.Tick()
	assert.NoError(err)
	p.Pause()

	assert.NoError(p.Reset())

	ip, _ := p.Register("IP")
	sp, _ := p.Register("SP")
	assert.Equal(uint32(PROGRAM_ADDRESS), ip.Value())
	assert.Equal(uint32(15), sp.Value())
	assert.Equal(0, p.History().Len())
	assert.False(p.IsPaused())

	value, _ := p.Memory().Get(12)
	assert.Equal(uint32(0), value)
}

func TestInfo(t *testing.T) {
	assert := assert.New(t)

	p, _, _ := newTestProcessor(t, instruction.BASIC)

	info := p.Info()
	assert.Contains(info, "100Hz")
	assert.Contains(info, "16x1")
	assert.Contains(info, "Instructions")
}

func TestDummy(t *testing.T) {
	assert := assert.New(t)

	dummy, err := NewDummy(DefaultConfig())
	assert.NoError(err)

	reg, err := dummy.Register("IP")
	assert.NoError(err)
	assert.Equal("Instruction Pointer", reg.Name())

	flag, err := dummy.Flag("CF")
	assert.NoError(err)
	assert.Equal("Carry Flag", flag.Name())

	_, err = dummy.Flag("XF")
	assert.ErrorIs(err, memory.ErrNotFound)

	_, err = NewDummy(Config{})
	assert.ErrorIs(err, ErrConfig)

	p, err := NewProcessor(DefaultConfig(), instruction.BASIC)
	assert.NoError(err)

	names := func(syms []memory.Symbol) (out []string) {
		for _, sym := range syms {
			out = append(out, sym.ShortName())
		}
		return
	}

	var machine Symbols = p
	assert.Equal(names(dummy.RegisterSymbols()), names(machine.RegisterSymbols()))
	assert.Equal(names(dummy.FlagSymbols()), names(machine.FlagSymbols()))
	assert.Equal(maps.Collect(dummy.Defines()), maps.Collect(machine.Defines()))
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	dummy, err := NewDummy(DefaultConfig())
	assert.NoError(err)

	defs := maps.Collect(dummy.Defines())
	assert.Equal("0", defs["IP"])
	assert.Equal("1", defs["SP"])
	assert.Equal("2", defs["ZF"])
	assert.Equal("0", defs["ZF_BIT"])
	assert.Equal("1", defs["CF_BIT"])
	assert.Equal("3", defs["PROGRAM_ADDRESS"])
	assert.Equal("4", defs["RESERVED_WORDS"])
	assert.Equal("256", defs["MEMORY_SIZE"])
	assert.Equal("255", defs["STACK_TOP"])
	assert.Equal("16", defs["WORD_BITS"])
	assert.Equal("0xffff", defs["WORD_MASK"])
}
