package main

import "github.com/CampiteliRafael/cartEcommerce/internal/domain"

var sampleProducts = []domain.Product{
	{
		Name:        "Smartphone Galaxy S23",
		Description: "Smartphone Samsung Galaxy S23 com 256GB de armazenamento, 8GB de RAM, câmera tripla de 50MP e tela AMOLED de 6.1 polegadas.",
		Price:       4999.99,
		Stock:       50,
		ImageURL:    "https://images.unsplash.com/photo-1598327105666-5b89351aff97?q=80&w=2042&auto=format&fit=crop",
	},
	{
		Name:        "Notebook Dell Inspiron 15",
		Description: "Notebook Dell Inspiron 15 com processador Intel Core i7, 16GB de RAM, SSD de 512GB e tela Full HD de 15.6 polegadas.",
		Price:       5499.99,
		Stock:       30,
		ImageURL:    "https://images.unsplash.com/photo-1588872657578-7efd1f1555ed?q=80&w=2070&auto=format&fit=crop",
	},
	{
		Name:        "Smart TV LG 55 polegadas",
		Description: "Smart TV LG 55 polegadas 4K com HDR, sistema webOS, Wi-Fi integrado e controle por voz.",
		Price:       3299.99,
		Stock:       25,
		ImageURL:    "https://images.unsplash.com/photo-1593359677879-a4bb92f829d1?q=80&w=2070&auto=format&fit=crop",
	},
	{
		Name:        "Fone de Ouvido Sony WH-1000XM4",
		Description: "Fone de ouvido sem fio Sony WH-1000XM4 com cancelamento de ruído, bateria de longa duração e qualidade de áudio premium.",
		Price:       1899.99,
		Stock:       40,
		ImageURL:    "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?q=80&w=2070&auto=format&fit=crop",
	},
	{
		Name:        "Câmera Canon EOS Rebel T7",
		Description: "Câmera DSLR Canon EOS Rebel T7 com 24.1MP, gravação de vídeo Full HD e conectividade Wi-Fi.",
		Price:       2799.99,
		Stock:       15,
		ImageURL:    "https://images.unsplash.com/photo-1502920917128-1aa500764cbd?q=80&w=2070&auto=format&fit=crop",
	},
	{
		Name:        "Console PlayStation 5",
		Description: "Console PlayStation 5 com SSD de 825GB, controle DualSense, suporte a jogos em 4K e ray tracing.",
		Price:       4499.99,
		Stock:       10,
		ImageURL:    "https://images.unsplash.com/photo-1607853202273-797f1c22a38e?q=80&w=2127&auto=format&fit=crop",
	},
	{
		Name:        "Tablet iPad Air",
		Description: "Tablet iPad Air com chip M1, tela Liquid Retina de 10.9 polegadas, 256GB de armazenamento e suporte a Apple Pencil.",
		Price:       5299.99,
		Stock:       20,
		ImageURL:    "https://images.unsplash.com/photo-1544244015-0df4b3ffc6b0?q=80&w=2069&auto=format&fit=crop",
	},
	{
		Name:        "Smartwatch Apple Watch Series 8",
		Description: "Smartwatch Apple Watch Series 8 com monitoramento de saúde avançado, GPS, resistência à água e tela Retina sempre ativa.",
		Price:       3499.99,
		Stock:       35,
		ImageURL:    "https://images.unsplash.com/photo-1579586337278-3befd40fd17a?q=80&w=2072&auto=format&fit=crop",
	},
	{
		Name:        "Caixa de Som JBL Charge 5",
		Description: "Caixa de som portátil JBL Charge 5 com Bluetooth, à prova d'água, bateria de 20 horas e powerbank integrado.",
		Price:       999.99,
		Stock:       45,
		ImageURL:    "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1?q=80&w=2069&auto=format&fit=crop",
	},
	{
		Name:        "Monitor Gamer LG UltraGear 27",
		Description: "Monitor Gamer LG UltraGear 27 polegadas com resolução QHD, taxa de atualização de 144Hz, tempo de resposta de 1ms e tecnologia HDR.",
		Price:       2199.99,
		Stock:       18,
		ImageURL:    "https://images.unsplash.com/photo-1616763355548-1b606f439f86?q=80&w=2070&auto=format&fit=crop",
	},
	{
		Name:        "Teclado Mecânico Logitech G Pro",
		Description: "Teclado mecânico Logitech G Pro com switches GX Blue, iluminação RGB, design compacto e cabo removível.",
		Price:       799.99,
		Stock:       30,
		ImageURL:    "https://images.unsplash.com/photo-1618384887929-16ec33fab9ef?q=80&w=2080&auto=format&fit=crop",
	},
	{
		Name:        "Mouse Gamer Razer DeathAdder V2",
		Description: "Mouse gamer Razer DeathAdder V2 com sensor óptico de 20.000 DPI, 8 botões programáveis e iluminação Chroma RGB.",
		Price:       399.99,
		Stock:       40,
		ImageURL:    "https://images.unsplash.com/photo-1615663245857-ac93bb7c39e7?q=80&w=2065&auto=format&fit=crop",
	},
	{
		Name:        "Impressora Multifuncional HP LaserJet",
		Description: "Impressora multifuncional HP LaserJet com impressão frente e verso automática, scanner, copiadora e conectividade Wi-Fi.",
		Price:       1499.99,
		Stock:       15,
		ImageURL:    "https://images.unsplash.com/photo-1612815292890-fd55c355d8ce?q=80&w=2070&auto=format&fit=crop",
	},
	{
		Name:        "Roteador Wi-Fi TP-Link Archer AX50",
		Description: "Roteador Wi-Fi TP-Link Archer AX50 com tecnologia Wi-Fi 6, velocidade de até 3 Gbps, 4 antenas e controle parental.",
		Price:       699.99,
		Stock:       25,
		ImageURL:    "https://images.unsplash.com/photo-1648231836813-6a127f2d930b?q=80&w=2070&auto=format&fit=crop",
	},
	{
		Name:        "Carregador Portátil Anker PowerCore",
		Description: "Carregador portátil Anker PowerCore com capacidade de 20.000mAh, carregamento rápido e múltiplas portas USB.",
		Price:       299.99,
		Stock:       50,
		ImageURL:    "https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?q=80&w=2069&auto=format&fit=crop",
	},
}
