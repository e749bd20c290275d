package ml

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/drakos74/free-learn/internal/model"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"

	mlx "github.com/drakos74/go-ex-machina/xmachina/ml"
	"github.com/drakos74/go-ex-machina/xmachina/net"
	"github.com/drakos74/go-ex-machina/xmachina/net/ff"
	"github.com/drakos74/go-ex-machina/xmath"
)

// initial weights are drawn from [-weightRange, weightRange]
const weightRange = 0.05

// Perceptron is a trained multilayer perceptron with one sigmoid output per class label.
type Perceptron struct {
	ds      *model.Dataset
	encoder *encoder
	network *ff.Network
	layers  []int
}

func trainPerceptron(ds *model.Dataset, hyper Hyper) (Model, error) {
	if hyper.Epochs < 1 {
		return nil, model.BackendError(nil, "invalid number of epochs %d", hyper.Epochs)
	}
	enc := newEncoder(ds)
	classes := ds.NumClasses()
	hidden, err := HiddenLayers(hyper.HiddenLayers, enc.size, classes)
	if err != nil {
		return nil, err
	}

	r := rand.New(rand.NewSource(hyper.WeightSeed))
	factory := net.NewBuilder().
		WithModule(mlx.Base().
			WithRate(mlx.Rate(hyper.LearningRate)).
			WithActivation(mlx.Sigmoid)).
		WithWeights(uniform(r, weightRange), uniform(r, weightRange)).
		Factory(newMomentumCell(hyper.Momentum))

	network := ff.New(enc.size, classes)
	for _, size := range hidden {
		network.Add(size, factory)
	}
	network.Add(classes, factory)
	network.Loss(mlx.Pow)

	inputs := make([]xmath.Vector, ds.NumRows())
	targets := make([]xmath.Vector, ds.NumRows())
	for i, row := range ds.Rows {
		inputs[i] = enc.encode(row)
		targets[i] = oneHot(classes, classOf(ds, row))
	}

	var loss float64
	if err := guard("neural network training", func() error {
		for e := 0; e < hyper.Epochs; e++ {
			loss = 0
			for i := range inputs {
				l, _ := network.Train(inputs[i], targets[i])
				loss += l.Sum()
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	log.Debug().
		Int("inputs", enc.size).
		Ints("hidden", hidden).
		Int("outputs", classes).
		Int("epochs", hyper.Epochs).
		Float64("loss", loss/float64(len(inputs))).
		Msg("neural network")
	return &Perceptron{
		ds:      ds,
		encoder: enc,
		network: network,
		layers:  hidden,
	}, nil
}

// Predict classifies the instance.
// The distribution is the output of the network normalised to sum up to 1.
func (p *Perceptron) Predict(x model.Instance) (int, []float64, error) {
	if len(x) != p.ds.NumAttributes() {
		return 0, nil, model.BackendError(nil, "instance has %d values, expected %d", len(x), p.ds.NumAttributes())
	}
	var out xmath.Vector
	if err := guard("neural network prediction", func() error {
		out = p.network.Predict(p.encoder.encode(x))
		return nil
	}); err != nil {
		return 0, nil, err
	}
	dist := append([]float64{}, out...)
	if sum := floats.Sum(dist); sum > 0 {
		floats.Scale(1/sum, dist)
	}
	return argMax(dist), dist, nil
}

// HiddenLayers resolves the hidden layer description into layer sizes.
// Each comma separated entry is either a number or one of the wildcards
// 'a' = (inputs + classes) / 2, 'i' = inputs, 'o' = classes, 't' = inputs + classes.
// A literal 0 adds no layer.
func HiddenLayers(description string, inputs, classes int) ([]int, error) {
	layers := make([]int, 0)
	for _, token := range strings.Split(description, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		var size int
		switch token {
		case "":
			continue
		case "a":
			size = (inputs + classes) / 2
		case "i":
			size = inputs
		case "o":
			size = classes
		case "t":
			size = inputs + classes
		default:
			n, err := strconv.Atoi(token)
			if err != nil || n < 0 {
				return nil, model.BackendError(err, "invalid hidden layer '%s'", token)
			}
			if n == 0 {
				continue
			}
			size = n
		}
		if size < 1 {
			size = 1
		}
		layers = append(layers, size)
	}
	return layers, nil
}

// encoder turns instances into network inputs.
// Numeric values are scaled to [-1, 1] with the range seen in training,
// nominal values become one input per label.
type encoder struct {
	ds       *model.Dataset
	min, max []float64
	size     int
}

func newEncoder(ds *model.Dataset) *encoder {
	e := &encoder{
		ds:  ds,
		min: make([]float64, ds.NumAttributes()),
		max: make([]float64, ds.NumAttributes()),
	}
	column := make([]float64, ds.NumRows())
	for j, a := range ds.Attributes {
		if j == ds.ClassIndex {
			continue
		}
		if !a.IsNumeric() {
			e.size += len(a.Values)
			continue
		}
		for i, row := range ds.Rows {
			column[i] = row[j].Num
		}
		if len(column) > 0 {
			e.min[j] = floats.Min(column)
			e.max[j] = floats.Max(column)
		}
		e.size++
	}
	return e
}

func (e *encoder) encode(x model.Instance) xmath.Vector {
	v := xmath.Vec(e.size)
	p := 0
	for j, a := range e.ds.Attributes {
		if j == e.ds.ClassIndex {
			continue
		}
		if !a.IsNumeric() {
			if i := a.IndexOf(x[j].Str); i >= 0 {
				v[p+i] = 1
			}
			p += len(a.Values)
			continue
		}
		if span := e.max[j] - e.min[j]; span > 0 {
			v[p] = 2*(x[j].Num-e.min[j])/span - 1
		}
		p++
	}
	return v
}

func uniform(r *rand.Rand, scale float64) xmath.VectorGenerator {
	return func(s, index int) xmath.Vector {
		v := xmath.Vec(s)
		for i := range v {
			v[i] = (2*r.Float64() - 1) * scale
		}
		return v
	}
}

// momentumCell is a sigmoid layer whose updates carry a share of the previous update.
type momentumCell struct {
	module        mlx.Module
	momentum      float64
	weights       *net.Weights
	meta          net.Meta
	input, output xmath.Vector
	dW            xmath.Matrix
	dB            xmath.Vector
}

func newMomentumCell(momentum float64) net.NeuronConstructor {
	return func(n, m int, module mlx.Module, weights *net.Weights, meta net.Meta) net.Neuron {
		return &momentumCell{
			module:   module,
			momentum: momentum,
			weights:  weights,
			meta:     meta,
			input:    xmath.Vec(n),
			output:   xmath.Vec(m),
			dW:       xmath.Mat(m).Of(n),
			dB:       xmath.Vec(m),
		}
	}
}

// Fwd applies the weights and the activation.
func (c *momentumCell) Fwd(v xmath.Vector) xmath.Vector {
	xmath.MustHaveSameSize(v, c.input)
	c.input = v
	c.output = c.weights.W.Prod(v).Add(c.weights.B).Op(c.module.F)
	return c.output
}

// Bwd updates the weights and returns the error for the previous layer.
func (c *momentumCell) Bwd(diff xmath.Vector) xmath.Vector {
	grad := c.output.Op(c.module.D).X(diff)
	loss := c.weights.W.T().Prod(grad)
	c.dW = grad.Prod(c.input).Mult(c.module.WRate()).Add(c.dW.Mult(c.momentum))
	c.dB = grad.Mult(c.module.BRate()).Add(c.dB.Mult(c.momentum))
	c.weights.W = c.weights.W.Add(c.dW)
	c.weights.B = c.weights.B.Add(c.dB)
	return loss
}

// Meta returns the metadata of the cell.
func (c *momentumCell) Meta() net.Meta {
	return c.meta
}

// Weights returns the current weights of the cell.
func (c *momentumCell) Weights() *net.Weights {
	return c.weights
}
