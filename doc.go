/*
Package treegram is a treebank processing toolbox.

Treegram reads constituency treebanks, including discontinuous ones with
crossing branches, transforms the trees, and extracts grammars in the
LCFRS/sRCG family from them. Package structure is as follows:

■ trees: Package trees implements the tree model: ordered labelled trees over
a yield of numbered terminals, with support for discontinuous yields, plus
label and punctuation machinery.

■ trees/transform: Package transform implements a pipeline of named tree
transformations, among them the removal of crossing branches by splitting and
raising.

■ trees/binarize: Package binarize implements tree-level binarization
strategies and markovization of the resulting node labels.

■ lcfrs: Package lcfrs implements grammar rules with linearization functions,
grammars with rule counting, and the extraction of rules from trees.

■ corpus: Package corpus drives transformations and extraction over whole
treebanks, concurrently if desired.

■ format: Package format and its sub-packages read and write treebank and
grammar formats (export, brackets, TIGER-XML, PMCFG, RCG, LoPar).

■ analyze: Package analyze computes corpus statistics such as gap degrees.

■ transitions: Package transitions derives oracle transition sequences from
trees.

The base package contains data types which are used throughout all the other
packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package treegram
